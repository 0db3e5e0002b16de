package cli

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/hilthontt/signals/internal/domain"
	"github.com/hilthontt/signals/internal/infrastructure/configs"
	"github.com/hilthontt/signals/internal/persistence/db"
	"github.com/hilthontt/signals/internal/persistence/repository"
	"github.com/spf13/cobra"
)

var errAuditQuery = errors.New("either --room or --event is required")

type auditOptions struct {
	roomID    string
	eventType string
	limit     int
	since     time.Duration
}

func newAuditCommand(root *rootOptions) *cobra.Command {
	opts := &auditOptions{}

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Query the event audit log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.validate(); err != nil {
				return err
			}

			cfg, err := configs.Load(configs.DetermineConfigPath(root.configPath))
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.MongoDB.Timeout+5*time.Second)
			defer cancel()

			conn, err := db.ConnectMongo(ctx, cfg.MongoDB)
			if err != nil {
				return err
			}
			defer conn.Close(context.WithoutCancel(ctx))

			records, err := opts.query(ctx, repository.NewEventAuditLogRepository(conn.Database))
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			for i := range records {
				if err := enc.Encode(records[i]); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.roomID, "room", "", "room id to list events for")
	cmd.Flags().StringVar(&opts.eventType, "event", "", "event type to list, e.g. agent.join")
	cmd.Flags().IntVar(&opts.limit, "limit", 50, "maximum number of room events")
	cmd.Flags().DurationVar(&opts.since, "since", time.Hour, "how far back to look for --event")

	return cmd
}

func (o *auditOptions) validate() error {
	if (o.roomID == "") == (o.eventType == "") {
		return errAuditQuery
	}
	return nil
}

func (o *auditOptions) query(ctx context.Context, repo domain.EventAuditRepository) ([]domain.EventAuditLog, error) {
	if o.roomID != "" {
		return repo.GetByRoomID(ctx, o.roomID, o.limit)
	}

	now := time.Now()
	return repo.GetByEventType(ctx, o.eventType, now.Add(-o.since), now)
}
