package memstore

import (
	"context"
	"slices"

	"github.com/google/uuid"
	"github.com/hilthontt/signals/internal/domain"
)

func (t *tx) CreateAgent(ctx context.Context, agent *domain.Agent) error {
	if agent == nil || agent.ID == uuid.Nil {
		return domain.ErrInvalidInput
	}
	if t.agentIndex(agent.ID) >= 0 {
		return domain.ErrAlreadyExists
	}
	t.state.agents = append(t.state.agents, *agent)
	return nil
}

func (t *tx) GetAgent(ctx context.Context, id uuid.UUID) (*domain.Agent, error) {
	i := t.agentIndex(id)
	if i < 0 {
		return nil, domain.ErrAgentNotFound
	}
	agent := t.state.agents[i]
	return &agent, nil
}

func (t *tx) DeleteAgent(ctx context.Context, id uuid.UUID) (*domain.Agent, error) {
	i := t.agentIndex(id)
	if i < 0 {
		return nil, domain.ErrAgentNotFound
	}
	agent := t.state.agents[i]
	t.state.agents = slices.Delete(t.state.agents, i, i+1)
	return &agent, nil
}

func (t *tx) agentIndex(id uuid.UUID) int {
	return slices.IndexFunc(t.state.agents, func(a domain.Agent) bool { return a.ID == id })
}

func (t *tx) CreateMember(ctx context.Context, member *domain.Member) error {
	if member == nil {
		return domain.ErrInvalidInput
	}
	if t.roomIndex(member.RoomID) < 0 {
		return domain.ErrRoomNotFound
	}
	if t.agentIndex(member.AgentID) < 0 {
		return domain.ErrAgentNotFound
	}
	if t.memberIndex(member.RoomID, member.AgentID) >= 0 {
		return domain.ErrAlreadyInRoom
	}
	t.state.members = append(t.state.members, *member)
	return nil
}

func (t *tx) GetMember(ctx context.Context, roomID, agentID uuid.UUID) (*domain.Member, error) {
	i := t.memberIndex(roomID, agentID)
	if i < 0 {
		return nil, domain.ErrMemberNotFound
	}
	member := t.state.members[i]
	return &member, nil
}

func (t *tx) UpdateMember(ctx context.Context, member *domain.Member) error {
	i := t.memberIndex(member.RoomID, member.AgentID)
	if i < 0 {
		return domain.ErrMemberNotFound
	}
	t.state.members[i] = *member
	return nil
}

func (t *tx) DeleteMember(ctx context.Context, roomID, agentID uuid.UUID) (*domain.Member, error) {
	i := t.memberIndex(roomID, agentID)
	if i < 0 {
		return nil, domain.ErrMemberNotFound
	}
	member := t.state.members[i]
	t.state.members = slices.Delete(t.state.members, i, i+1)
	return &member, nil
}

func (t *tx) ListMembers(ctx context.Context, roomID uuid.UUID) ([]domain.Member, error) {
	var members []domain.Member
	for _, m := range t.state.members {
		if m.RoomID == roomID {
			members = append(members, m)
		}
	}
	return members, nil
}

func (t *tx) AgentRoomIDs(ctx context.Context, agentID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, m := range t.state.members {
		if m.AgentID == agentID {
			ids = append(ids, m.RoomID)
		}
	}
	return ids, nil
}

func (t *tx) memberIndex(roomID, agentID uuid.UUID) int {
	return slices.IndexFunc(t.state.members, func(m domain.Member) bool {
		return m.RoomID == roomID && m.AgentID == agentID
	})
}
