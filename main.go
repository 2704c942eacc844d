// @title           Congress Data API
// @version         1.0
// @description     Members, bills and roll-call votes of the U.S. Congress with a tool-using assistant.
// @BasePath        /api/v1
// @accept          json
// @produce         json
package main

import (
	"github.com/tbourn/go-congress-backend/cmd"
	_ "github.com/tbourn/go-congress-backend/docs"
)

func main() {
	cmd.Execute()
}
