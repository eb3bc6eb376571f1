package leave

import "github.com/google/uuid"

// Action is the closed set of decisions that can end a pending request.
type Action int

const (
	ActionApprove Action = iota + 1
	ActionReject
)

func ParseAction(s string) (Action, bool) {
	switch s {
	case "approve":
		return ActionApprove, true
	case "reject":
		return ActionReject, true
	}
	return 0, false
}

func (a Action) String() string {
	switch a {
	case ActionApprove:
		return "approve"
	case ActionReject:
		return "reject"
	}
	return "unknown"
}

// TargetStatus is the terminal status a decision moves a request to.
func (a Action) TargetStatus() string {
	switch a {
	case ActionApprove:
		return StatusApproved
	case ActionReject:
		return StatusRejected
	}
	return ""
}

func (a Action) logAction() string {
	if a == ActionApprove {
		return LogApproved
	}
	return LogRejected
}

// Actor identifies who moved a request and through which channel. A nil
// UserID means the decision came from an emailed single-use link.
type Actor struct {
	UserID  *uuid.UUID
	Channel string
}

func UserActor(id uuid.UUID, channel string) Actor {
	return Actor{UserID: &id, Channel: channel}
}

// EmailLinkActor stands for "processed via emailed link".
var EmailLinkActor = Actor{Channel: ChannelEmailLink}

func (a Actor) String() string {
	if a.UserID == nil {
		return a.Channel
	}
	return a.UserID.String() + "@" + a.Channel
}
