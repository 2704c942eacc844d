package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tbourn/go-congress-backend/internal/domain"
	"github.com/tbourn/go-congress-backend/internal/services"
	"github.com/tbourn/go-congress-backend/internal/sysutil"
)

var (
	syncCongress int
	syncChamber  string
	syncSession  int
	syncLimit    int
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Import data from the upstream sources",
	Long: `Import members, contacts, bills or roll-call votes into the local store.

Examples:
  # Current roster of both chambers
  congress sync members

  # Office phone and address of every stored senator
  congress sync contacts --chamber senate

  # Latest 200 bills of the 118th Congress
  congress sync bills --congress 118 --limit 200

  # House votes of the current session
  congress sync votes --chamber house`,
}

var syncMembersCmd = &cobra.Command{
	Use:   "members",
	Short: "Import the member roster of a congress",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSync(cmd, func(ctx context.Context, ms *services.MemberSyncer, _ *services.BillSyncer, _ *services.VoteSyncer) error {
			ch, err := chamberFlag()
			if err != nil {
				return err
			}
			stats, err := ms.SyncRoster(ctx, congressFlag(), ch)
			report(cmd, "members", stats)
			return err
		})
	},
}

var syncContactsCmd = &cobra.Command{
	Use:   "contacts",
	Short: "Refresh phone, address and website of stored members",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSync(cmd, func(ctx context.Context, ms *services.MemberSyncer, _ *services.BillSyncer, _ *services.VoteSyncer) error {
			ch, err := chamberFlag()
			if err != nil {
				return err
			}
			stats, err := ms.SyncContacts(ctx, ch)
			report(cmd, "contacts", stats)
			return err
		})
	},
}

var syncBillsCmd = &cobra.Command{
	Use:   "bills",
	Short: "Import the most recently updated bills of a congress",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSync(cmd, func(ctx context.Context, _ *services.MemberSyncer, bs *services.BillSyncer, _ *services.VoteSyncer) error {
			n := bs.Sync(ctx, congressFlag(), syncLimit)
			fmt.Fprintf(cmd.OutOrStdout(), "bills: %d written\n", n)
			return ctx.Err()
		})
	},
}

var syncVotesCmd = &cobra.Command{
	Use:   "votes",
	Short: "Import roll-call votes of a session (both chambers unless --chamber)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSync(cmd, func(ctx context.Context, _ *services.MemberSyncer, _ *services.BillSyncer, vs *services.VoteSyncer) error {
			ch, err := chamberFlag()
			if err != nil {
				return err
			}
			chambers := []domain.Chamber{domain.ChamberHouse, domain.ChamberSenate}
			if ch != "" {
				chambers = []domain.Chamber{ch}
			}
			cong := congressFlag()
			session := syncSession
			if session == 0 {
				session = services.CurrentSession(cong, time.Now().UTC())
			}
			for _, c := range chambers {
				n := vs.Sync(ctx, cong, session, c, syncLimit)
				fmt.Fprintf(cmd.OutOrStdout(), "votes (%s, session %d): %d written\n", c, session, n)
			}
			return ctx.Err()
		})
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.AddCommand(syncMembersCmd, syncContactsCmd, syncBillsCmd, syncVotesCmd)

	syncCmd.PersistentFlags().IntVarP(&syncCongress, "congress", "c", 0, "congress number (default SYNC_CURRENT_CONGRESS)")
	syncCmd.PersistentFlags().StringVar(&syncChamber, "chamber", "", "house or senate (default both)")
	syncCmd.PersistentFlags().IntVarP(&syncLimit, "limit", "n", 250, "max records to import")
	syncVotesCmd.Flags().IntVar(&syncSession, "session", 0, "session 1 or 2 (default current)")
}

type syncFunc func(context.Context, *services.MemberSyncer, *services.BillSyncer, *services.VoteSyncer) error

// withSync bootstraps the app with CLI-labelled syncers and runs fn under a
// signal-cancelled context scoped to this run. It is not stored on cmd.
func withSync(cmd *cobra.Command, fn syncFunc) error {
	ctx, stop := sysutil.SignalContext(cmd.Context())
	defer stop()

	a, cleanup, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	start := time.Now()
	ms, bs, vs := a.WithTrigger(services.TriggerCLI)
	err = fn(ctx, ms, bs, vs)
	log.Info().Str("command", cmd.Name()).Dur("took", time.Since(start)).Err(err).Msg("sync finished")
	return err
}

func congressFlag() int {
	if syncCongress > 0 {
		return syncCongress
	}
	return cfg.Sync.CurrentCongress
}

func chamberFlag() (domain.Chamber, error) {
	if strings.TrimSpace(syncChamber) == "" {
		return "", nil
	}
	return domain.ParseChamber(syncChamber)
}

func report(cmd *cobra.Command, kind string, s services.SyncStats) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d total, %d imported, %d skipped, %d failed\n",
		kind, s.Total, s.Imported, s.Skipped, s.Failed)
}
