// internal/services/poll_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradenet/portal-backend/internal/database"
	"github.com/tradenet/portal-backend/internal/models"
	"github.com/tradenet/portal-backend/internal/utils"
)

type PollService struct {
	db *gorm.DB
}

type CreatePollRequest struct {
	Question string    `json:"question" validate:"required,min=5,max=500"`
	Details  string    `json:"details,omitempty" validate:"omitempty,max=5000"`
	OpensAt  time.Time `json:"opens_at" validate:"required"`
	ClosesAt time.Time `json:"closes_at" validate:"required"`
	Options  []string  `json:"options" validate:"required,min=2,dive,required,max=255"`
}

type VoteRequest struct {
	OptionID uuid.UUID `json:"option_id" validate:"required"`
}

type OptionTally struct {
	OptionID uuid.UUID `json:"option_id"`
	Label    string    `json:"label"`
	Votes    int64     `json:"votes"`
}

type PollResults struct {
	Poll       *models.Poll  `json:"poll"`
	TotalVotes int64         `json:"total_votes"`
	Tallies    []OptionTally `json:"tallies"`
}

func NewPollService(db *gorm.DB) *PollService {
	return &PollService{db: db}
}

func (s *PollService) CreatePoll(createdBy uuid.UUID, req *CreatePollRequest) (*models.Poll, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if !req.ClosesAt.After(req.OpensAt) {
		return nil, errors.New("poll must close after it opens")
	}

	seen := make(map[string]bool, len(req.Options))
	for _, label := range req.Options {
		key := strings.ToLower(strings.TrimSpace(label))
		if seen[key] {
			return nil, errors.New("poll options must be unique")
		}
		seen[key] = true
	}

	poll := &models.Poll{
		Question:  req.Question,
		Details:   req.Details,
		OpensAt:   req.OpensAt,
		ClosesAt:  req.ClosesAt,
		Status:    models.PollStatusDraft,
		CreatedBy: createdBy,
	}

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Create(poll).Error; err != nil {
			return fmt.Errorf("failed to create poll: %w", err)
		}
		for i, label := range req.Options {
			option := models.PollOption{
				PollID:   poll.ID,
				Label:    strings.TrimSpace(label),
				Position: i,
			}
			if err := tx.Create(&option).Error; err != nil {
				return fmt.Errorf("failed to create poll option: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetPoll(poll.ID)
}

func (s *PollService) GetPoll(id uuid.UUID) (*models.Poll, error) {
	var poll models.Poll
	err := s.db.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc")
	}).First(&poll, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("poll not found")
		}
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}
	return &poll, nil
}

func (s *PollService) ListPolls(params utils.PaginationParams, status string) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.Poll{}).Preload("Options")

	if status != "" {
		query = query.Where("status = ?", status)
	}
	if params.Search != "" {
		query = query.Where("question ILIKE ?", "%"+params.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count polls: %w", err)
	}

	var polls []models.Poll
	query = utils.ApplySort(query, params, []string{"opens_at", "closes_at", "created_at"})
	if err := utils.ApplyPagination(query, params).Find(&polls).Error; err != nil {
		return nil, fmt.Errorf("failed to list polls: %w", err)
	}

	result := utils.CreatePaginationResult(polls, total, params)
	return &result, nil
}

func (s *PollService) OpenPoll(id uuid.UUID) (*models.Poll, error) {
	poll, err := s.GetPoll(id)
	if err != nil {
		return nil, err
	}
	if poll.Status != models.PollStatusDraft {
		return nil, errors.New("only draft polls can be opened")
	}

	if err := s.db.Model(&models.Poll{}).Where("id = ?", id).Update("status", models.PollStatusOpen).Error; err != nil {
		return nil, fmt.Errorf("failed to open poll: %w", err)
	}
	return s.GetPoll(id)
}

func (s *PollService) ClosePoll(id uuid.UUID) (*models.Poll, error) {
	poll, err := s.GetPoll(id)
	if err != nil {
		return nil, err
	}
	if poll.Status != models.PollStatusOpen {
		return nil, errors.New("only open polls can be closed")
	}

	if err := s.db.Model(&models.Poll{}).Where("id = ?", id).Update("status", models.PollStatusClosed).Error; err != nil {
		return nil, fmt.Errorf("failed to close poll: %w", err)
	}
	return s.GetPoll(id)
}

// Vote casts a ballot. The voting window and the one-ballot-per-voter
// rule are both checked here; the unique index on (poll_id, voter_id)
// backs the latter against races.
func (s *PollService) Vote(pollID, voterID uuid.UUID, req *VoteRequest) (*models.Ballot, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	poll, err := s.GetPoll(pollID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if poll.Status != models.PollStatusOpen {
		return nil, errors.New("poll is not open for voting")
	}
	if now.Before(poll.OpensAt) {
		return nil, errors.New("voting has not opened yet")
	}
	if now.After(poll.ClosesAt) {
		return nil, errors.New("voting has closed")
	}

	validOption := false
	for _, option := range poll.Options {
		if option.ID == req.OptionID {
			validOption = true
			break
		}
	}
	if !validOption {
		return nil, errors.New("option does not belong to this poll")
	}

	var existing int64
	s.db.Model(&models.Ballot{}).Where("poll_id = ? AND voter_id = ?", pollID, voterID).Count(&existing)
	if existing > 0 {
		return nil, errors.New("you have already voted on this poll")
	}

	ballot := &models.Ballot{
		PollID:   pollID,
		OptionID: req.OptionID,
		VoterID:  voterID,
	}
	if err := s.db.Create(ballot).Error; err != nil {
		if strings.Contains(err.Error(), "idx_ballots_poll_voter") {
			return nil, errors.New("you have already voted on this poll")
		}
		return nil, fmt.Errorf("failed to cast ballot: %w", err)
	}

	return ballot, nil
}

// Results tallies ballots per option. Draft polls have no results; open
// polls return a running tally.
func (s *PollService) Results(pollID uuid.UUID) (*PollResults, error) {
	poll, err := s.GetPoll(pollID)
	if err != nil {
		return nil, err
	}
	if poll.Status == models.PollStatusDraft {
		return nil, errors.New("poll has no results yet")
	}

	results := &PollResults{Poll: poll}
	for _, option := range poll.Options {
		var votes int64
		if err := s.db.Model(&models.Ballot{}).Where("option_id = ?", option.ID).Count(&votes).Error; err != nil {
			return nil, fmt.Errorf("failed to tally votes: %w", err)
		}
		results.Tallies = append(results.Tallies, OptionTally{
			OptionID: option.ID,
			Label:    option.Label,
			Votes:    votes,
		})
		results.TotalVotes += votes
	}

	return results, nil
}
