package approvaltoken

import (
	"context"
	"database/sql"
	"errors"

	approvaltokenerrors "go-leaves/internal/approvaltoken/errors"
	"go-leaves/internal/leave"
	leaveerrors "go-leaves/internal/leave/errors"
	"go-leaves/internal/shared/contextutil"

	"go.uber.org/zap"
)

// Result is what a link visit produced. Outcome is OutcomeValid only when
// the action was applied, in which case Request holds the updated request.
type Result struct {
	Action     leave.Action
	Validation Validation
	Request    *leave.LeaveResponse
}

func (r Result) Succeeded() bool {
	return r.Validation.Outcome == OutcomeValid && r.Request != nil
}

// Decider is the workflow entry point a redeemed token drives.
type Decider interface {
	Decide(ctx context.Context, d leave.Decision) (leave.LeaveResponse, error)
}

//go:generate mockgen -source=approvaltoken_redeemer.go -destination=mock/approvaltoken_redeemer_mock.go -package=mock
type Redeemer interface {
	Redeem(ctx context.Context, action leave.Action, token string, client contextutil.ClientInfo) (Result, error)
}

type redeemer struct {
	tokens Service
	leaves Decider
	logger *zap.Logger
}

func NewRedeemer(tokens Service, leaves Decider, logger ...*zap.Logger) Redeemer {
	l := zap.L().Named("approvaltoken.redeemer")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("approvaltoken.redeemer")
	}
	return &redeemer{tokens: tokens, leaves: leaves, logger: l}
}

// Redeem validates token and, when valid, applies its action through the
// workflow. The token is consumed inside the workflow transaction, so at
// most one visit per token can succeed.
func (r *redeemer) Redeem(ctx context.Context, action leave.Action, token string, client contextutil.ClientInfo) (Result, error) {
	v, err := r.tokens.Validate(ctx, token)
	if err != nil {
		return Result{}, err
	}
	if v.Outcome != OutcomeValid {
		return Result{Action: action, Validation: v}, nil
	}
	// An approve token cannot be replayed on the reject path or the reverse.
	if v.Token.Action != action.String() {
		return Result{Action: action, Validation: Validation{Outcome: OutcomeInvalid}}, nil
	}

	resp, err := r.leaves.Decide(ctx, leave.Decision{
		RequestID: v.Token.RequestID.String(),
		Action:    action,
		Actor:     leave.EmailLinkActor,
		Guard: func(ctx context.Context, tx *sql.Tx, _ *leave.LeaveRequest) error {
			return r.tokens.WithTx(tx).Consume(ctx, token, client)
		},
	})
	if err != nil {
		if errors.Is(err, approvaltokenerrors.ErrTokenAlreadyUsed) || errors.Is(err, leaveerrors.ErrLeaveNotPending) {
			// Lost a race with another visit or the admin UI; report what won.
			again, verr := r.tokens.Validate(ctx, token)
			if verr != nil {
				return Result{}, verr
			}
			return Result{Action: action, Validation: again}, nil
		}
		return Result{}, err
	}

	r.logger.Info("leave request processed via email link",
		zap.String("request_id", resp.ID),
		zap.String("action", action.String()),
		zap.String("ip", client.IP),
	)
	return Result{Action: action, Validation: v, Request: &resp}, nil
}
