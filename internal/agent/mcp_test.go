package agent

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/tbourn/go-congress-backend/internal/services"
)

func TestMCPHandler_Success(t *testing.T) {
	reg, _, _ := newTestRegistry()
	h := handler(reg, "search_members")

	result, err := h(context.Background(), makeReq(map[string]interface{}{
		"state": "UT",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(result))
	}
	if !strings.Contains(resultText(result), "Mike Lee (R-UT), Senate [L000577]") {
		t.Errorf("text = %s", resultText(result))
	}
}

func TestMCPHandler_MissingArgument(t *testing.T) {
	reg, _, _ := newTestRegistry()
	h := handler(reg, "get_bill")

	result, err := h(context.Background(), makeReq(map[string]interface{}{}))
	if err != nil {
		t.Fatalf("handler should not return Go error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error")
	}
	if !strings.Contains(resultText(result), "bill_id") {
		t.Errorf("text = %s", resultText(result))
	}
}

func TestMCPHandler_BackendError(t *testing.T) {
	reg, m, _ := newTestRegistry()
	m.err = errors.New("db down")
	h := handler(reg, "get_member_votes")

	result, err := h(context.Background(), makeReq(map[string]interface{}{"bioguide_id": "L000577"}))
	if err != nil {
		t.Fatalf("handler should not return Go error: %v", err)
	}
	if !result.IsError || !strings.Contains(resultText(result), "db down") {
		t.Errorf("result = %+v", result)
	}
}

func TestIsCallerError(t *testing.T) {
	if !isCallerError(services.ErrBillNotFound) {
		t.Error("not found is a caller error")
	}
	if isCallerError(errors.New("boom")) {
		t.Error("boom is not a caller error")
	}
}

func TestNewMCPServer_ListsTools(t *testing.T) {
	reg, _, _ := newTestRegistry()
	s := NewMCPServer(reg, "test")

	resp := s.HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatal(err)
	}
	for _, tool := range reg.Tools() {
		name := tool.Definition().Name
		if !strings.Contains(string(raw), `"`+name+`"`) {
			t.Errorf("tools/list missing %s: %s", name, raw)
		}
	}
}
