package entitlement

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/gatekit/pkg/pg"
)

// PostgresStateStore implements StateStore over the merchant_entitlement_state
// table (see migrations/).
type PostgresStateStore struct {
	pool *pgxpool.Pool
}

var _ StateStore = (*PostgresStateStore)(nil)

// NewPostgresStateStore creates a store over the given connection pool.
// Panics if pool is nil.
func NewPostgresStateStore(pool *pgxpool.Pool) *PostgresStateStore {
	if pool == nil {
		panic("entitlement: postgres pool is required")
	}
	return &PostgresStateStore{pool: pool}
}

func (s *PostgresStateStore) State(ctx context.Context, merchantID string) (MerchantState, error) {
	if merchantID == "" {
		return MerchantState{}, ErrInvalidMerchantID
	}

	var st MerchantState
	err := s.pool.QueryRow(ctx,
		`select merchant_id, active_plan_id, coalesce(previous_plan_id, ''), downgraded_at
		 from merchant_entitlement_state where merchant_id = $1`,
		merchantID,
	).Scan(&st.MerchantID, &st.ActivePlanID, &st.PreviousPlanID, &st.DowngradedAt)
	if err != nil {
		if pg.IsNotFound(err) {
			return MerchantState{}, ErrMerchantNotFound
		}
		return MerchantState{}, err
	}
	return st, nil
}

// Put upserts a merchant record. Exposed for the subscription lifecycle
// component; remember to invalidate the entitlement cache after calling it.
func (s *PostgresStateStore) Put(ctx context.Context, state MerchantState) error {
	if err := state.Validate(); err != nil {
		return err
	}

	var prev any
	if state.PreviousPlanID != "" {
		prev = state.PreviousPlanID
	}

	_, err := s.pool.Exec(ctx,
		`insert into merchant_entitlement_state (merchant_id, active_plan_id, previous_plan_id, downgraded_at)
		 values ($1, $2, $3, $4)
		 on conflict (merchant_id) do update
		 set active_plan_id = excluded.active_plan_id,
		     previous_plan_id = excluded.previous_plan_id,
		     downgraded_at = excluded.downgraded_at,
		     updated_at = now()`,
		state.MerchantID, state.ActivePlanID, prev, state.DowngradedAt,
	)
	return err
}

// Delete removes a merchant record; deleting an absent record is a no-op.
func (s *PostgresStateStore) Delete(ctx context.Context, merchantID string) error {
	if merchantID == "" {
		return ErrInvalidMerchantID
	}
	_, err := s.pool.Exec(ctx,
		`delete from merchant_entitlement_state where merchant_id = $1`, merchantID)
	return err
}
