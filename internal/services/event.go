package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"chipin/internal/domain"

	"github.com/shopspring/decimal"
)

const maxEventNameLen = 200

type eventService struct {
	groupRepo      domain.GroupRepository
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	shares         shareCalculator
	contextTimeout time.Duration
}

func NewEventService(groupRepo domain.GroupRepository, eventRepo domain.EventRepository, userRepo domain.UserRepository, timeout time.Duration) domain.EventService {
	return &eventService{
		groupRepo:      groupRepo,
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		shares:         shareCalculator{groupRepo: groupRepo, eventRepo: eventRepo},
		contextTimeout: timeout,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, groupID, actorID, name string, date time.Time, totalSpend decimal.Decimal) (*domain.Event, *domain.Outcome, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	group, err := loadGroup(ctx, s.groupRepo, groupID)
	if err != nil {
		return nil, nil, err
	}
	back := domain.GroupPath(group.ID)
	if !group.IsAdmin(actorID) {
		return nil, domain.Failure(back, "Only the group administrator can create events."), nil
	}
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxEventNameLen {
		return nil, nil, fmt.Errorf("%w: name must be between 1 and %d characters", domain.ErrInvalidInput, maxEventNameLen)
	}

	total, err := domain.NormalizeAmount(totalSpend)
	if err != nil {
		return nil, nil, fmt.Errorf("total_spend: %w", err)
	}

	event := domain.NewEvent(group.ID, name, date, total, time.Now())
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, nil, fmt.Errorf("create event: %w", err)
	}
	return event, domain.Success(back, "Event \"%s\" created successfully!", event.Name), nil
}

func (s *eventService) JoinEvent(ctx context.Context, groupID, eventID, userID string) (*domain.Outcome, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	_, event, err := s.loadEvent(ctx, groupID, eventID)
	if err != nil {
		return nil, err
	}
	back := domain.GroupPath(event.GroupID)
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	share, err := s.shares.share(ctx, event)
	if err != nil {
		return nil, err
	}
	if limit := user.SpendingCap(); limit.LessThan(share) {
		return domain.Failure(back, "Your max spend of $%s is too low to join this event.", domain.FormatAmount(limit)), nil
	}

	alreadyJoined := domain.Info(back, "You have already joined this event.")
	joined, err := s.eventRepo.IsMember(ctx, event.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("check event membership: %w", err)
	}
	if joined {
		return alreadyJoined, nil
	}
	if err := s.eventRepo.AddMember(ctx, event.ID, userID); err != nil {
		if errors.Is(err, domain.ErrAlreadyMember) {
			return alreadyJoined, nil
		}
		return nil, fmt.Errorf("add event member: %w", err)
	}
	if err := s.refreshStatus(ctx, event); err != nil {
		return nil, err
	}
	return domain.Success(back, "You have successfully joined the event '%s'.", event.Name), nil
}

func (s *eventService) LeaveEvent(ctx context.Context, groupID, eventID, userID string) (*domain.Outcome, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	_, event, err := s.loadEvent(ctx, groupID, eventID)
	if err != nil {
		return nil, err
	}
	back := domain.GroupPath(event.GroupID)
	joined, err := s.eventRepo.IsMember(ctx, event.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("check event membership: %w", err)
	}
	if !joined {
		return domain.Failure(back, "You are not a member of this event."), nil
	}
	if err := s.eventRepo.RemoveMember(ctx, event.ID, userID); err != nil {
		return nil, fmt.Errorf("remove event member: %w", err)
	}
	if err := s.refreshStatus(ctx, event); err != nil {
		return nil, err
	}
	return domain.Success(back, "You have successfully left the event '%s'.", event.Name), nil
}

func (s *eventService) UpdateEventStatus(ctx context.Context, groupID, eventID, actorID string) (*domain.Outcome, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	group, event, err := s.loadEvent(ctx, groupID, eventID)
	if err != nil {
		return nil, err
	}
	back := domain.GroupPath(group.ID)
	if !group.IsAdmin(actorID) {
		return domain.Failure(back, "Only the group administrator can update the event status."), nil
	}
	if err := s.refreshStatus(ctx, event); err != nil {
		return nil, err
	}
	if event.Status == domain.EventActive {
		return domain.Success(back, "The event '%s' is now Active. All members can cover the cost.", event.Name), nil
	}
	return domain.Warning(back, "The event '%s' remains Pending. Some members cannot cover the cost.", event.Name), nil
}

func (s *eventService) DeleteEvent(ctx context.Context, groupID, eventID, actorID string) (*domain.Outcome, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	group, event, err := s.loadEvent(ctx, groupID, eventID)
	if err != nil {
		return nil, err
	}
	back := domain.GroupPath(group.ID)
	if !group.IsAdmin(actorID) {
		return domain.Failure(back, "Only the group administrator can delete events."), nil
	}
	if err := s.eventRepo.Delete(ctx, event.ID); err != nil {
		return nil, fmt.Errorf("delete event: %w", err)
	}
	return domain.Success(back, "The event '%s' has been deleted.", event.Name), nil
}

// loadEvent returns domain.ErrNotFound when the event does not belong to the group.
func (s *eventService) loadEvent(ctx context.Context, groupID, eventID string) (*domain.Group, *domain.Event, error) {
	group, err := loadGroup(ctx, s.groupRepo, groupID)
	if err != nil {
		return nil, nil, err
	}
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("get event: %w", err)
	}
	if event.GroupID != group.ID {
		return nil, nil, domain.ErrNotFound
	}
	return group, event, nil
}

func (s *eventService) refreshStatus(ctx context.Context, event *domain.Event) error {
	if err := s.shares.checkStatus(ctx, event); err != nil {
		return err
	}
	if err := s.eventRepo.UpdateStatus(ctx, event.ID, event.Status); err != nil {
		return fmt.Errorf("update event status: %w", err)
	}
	return nil
}
