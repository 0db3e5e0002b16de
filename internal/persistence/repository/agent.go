package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/hilthontt/signals/internal/domain"
)

func (t *tx) CreateAgent(ctx context.Context, agent *domain.Agent) error {
	return translate(t.db.Create(agent).Error, domain.ErrAgentNotFound)
}

func (t *tx) GetAgent(ctx context.Context, id uuid.UUID) (*domain.Agent, error) {
	var agent domain.Agent
	if err := t.db.Where("id = ?", id).First(&agent).Error; err != nil {
		return nil, translate(err, domain.ErrAgentNotFound)
	}
	return &agent, nil
}

func (t *tx) DeleteAgent(ctx context.Context, id uuid.UUID) (*domain.Agent, error) {
	agent, err := t.GetAgent(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := t.db.Where("id = ?", id).Delete(&domain.Agent{}).Error; err != nil {
		return nil, translate(err, domain.ErrAgentNotFound)
	}
	return agent, nil
}

func (t *tx) CreateMember(ctx context.Context, member *domain.Member) error {
	ok, err := t.exists(&domain.Room{}, "id = ?", member.RoomID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrRoomNotFound
	}

	ok, err = t.exists(&domain.Agent{}, "id = ?", member.AgentID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrAgentNotFound
	}

	ok, err = t.exists(&domain.Member{}, "room_id = ? AND agent_id = ?", member.RoomID, member.AgentID)
	if err != nil {
		return err
	}
	if ok {
		return domain.ErrAlreadyInRoom
	}

	return translate(t.db.Create(member).Error, domain.ErrMemberNotFound)
}

func (t *tx) GetMember(ctx context.Context, roomID, agentID uuid.UUID) (*domain.Member, error) {
	var member domain.Member
	err := t.db.Where("room_id = ? AND agent_id = ?", roomID, agentID).First(&member).Error
	if err != nil {
		return nil, translate(err, domain.ErrMemberNotFound)
	}
	return &member, nil
}

func (t *tx) UpdateMember(ctx context.Context, member *domain.Member) error {
	res := t.db.Model(&domain.Member{}).
		Where("room_id = ? AND agent_id = ?", member.RoomID, member.AgentID).
		Update("label", member.Label)
	if res.Error != nil {
		return translate(res.Error, domain.ErrMemberNotFound)
	}
	if res.RowsAffected == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

func (t *tx) DeleteMember(ctx context.Context, roomID, agentID uuid.UUID) (*domain.Member, error) {
	member, err := t.GetMember(ctx, roomID, agentID)
	if err != nil {
		return nil, err
	}
	err = t.db.Where("room_id = ? AND agent_id = ?", roomID, agentID).Delete(&domain.Member{}).Error
	if err != nil {
		return nil, translate(err, domain.ErrMemberNotFound)
	}
	return member, nil
}

func (t *tx) ListMembers(ctx context.Context, roomID uuid.UUID) ([]domain.Member, error) {
	var members []domain.Member
	if err := t.db.Where("room_id = ?", roomID).Order("created_at").Find(&members).Error; err != nil {
		return nil, translate(err, domain.ErrMemberNotFound)
	}
	return members, nil
}

func (t *tx) AgentRoomIDs(ctx context.Context, agentID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := t.db.Model(&domain.Member{}).
		Where("agent_id = ?", agentID).
		Order("created_at").
		Pluck("room_id", &ids).Error
	if err != nil {
		return nil, translate(err, domain.ErrMemberNotFound)
	}
	return ids, nil
}
