package event

import "github.com/google/uuid"

// События, рассылаемые участникам организации.
const (
	ProposalCreated        = "proposal.created"
	ProposalVersionCreated = "proposal.version_created"
	ProposalSigned         = "proposal.signed"
	SigningLinkCreated     = "signing_link.created"
)

// Publisher доставляет события подключённым клиентам организации.
type Publisher interface {
	BroadcastToOrg(orgID uuid.UUID, event string, data any) error
}

// NopPublisher ничего не отправляет.
type NopPublisher struct{}

func (NopPublisher) BroadcastToOrg(uuid.UUID, string, any) error { return nil }
