// Package generate coordinates quota, the provider router, the job
// manager and the slide store into the generation and edit operations.
package generate

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"deckgen/internal/deck"
	"deckgen/internal/domain"
	"deckgen/internal/jobs"
	"deckgen/internal/providers/llm"
	"deckgen/internal/quota"
)

const (
	// DefaultSlideCount is used when a request does not say how many
	// slides it wants.
	DefaultSlideCount = 2
	// MaxSlideCount bounds a single generation request.
	MaxSlideCount = 15

	outlineMaxTokens = 2048
)

// TextRouter is the slice of the provider router the orchestrator needs.
type TextRouter interface {
	Generate(ctx context.Context, req llm.Request) (*llm.Response, error)
}

// ServiceOptions configures the orchestrator.
type ServiceOptions struct {
	// EditConsumesQuota makes slide edits draw from the same allowance
	// as generation. Off by default; kept as a policy switch because the
	// right answer is genuinely unclear.
	EditConsumesQuota bool
	Logger            zerolog.Logger
}

// Service is the generation orchestrator.
type Service struct {
	router            TextRouter
	decks             *deck.Manager
	jobs              *jobs.Manager
	quota             *quota.Enforcer
	editConsumesQuota bool
	logger            zerolog.Logger
}

func NewService(router TextRouter, decks *deck.Manager, jobManager *jobs.Manager, enforcer *quota.Enforcer, opts ServiceOptions) *Service {
	return &Service{
		router:            router,
		decks:             decks,
		jobs:              jobManager,
		quota:             enforcer,
		editConsumesQuota: opts.EditConsumesQuota,
		logger:            opts.Logger,
	}
}

// GenerateResult is the payload stored on a completed generation job.
type GenerateResult struct {
	Topic      string         `json:"topic"`
	SlideCount int            `json:"slides_count"`
	Slides     []domain.Slide `json:"slides"`
}

// Generate checks quota, then submits an asynchronous generation job and
// returns its identifier immediately. Quota violations and unknown
// sessions fail fast, before any job exists; everything that happens
// after submission is reported through the job's polled status.
func (s *Service) Generate(ctx context.Context, sessionID, userID, topic string, slideCount int, extraContext string) (string, error) {
	slideCount = normalizeSlideCount(slideCount)

	session, err := s.ownedSession(ctx, sessionID, userID)
	if err != nil {
		return "", err
	}
	if _, err := s.quota.CheckAndReserve(ctx, userID, slideCount); err != nil {
		return "", err
	}

	jobID := s.jobs.Submit(sessionID, domain.JobTypeGenerate, func(jobCtx context.Context, progress *jobs.Reporter) (any, error) {
		result, err := s.runGeneration(jobCtx, session, userID, topic, slideCount, extraContext, progress.Update)
		if err != nil {
			return nil, err
		}
		return result, nil
	})

	s.logger.Info().Str("session_id", sessionID).Str("job_id", jobID).
		Str("topic", topic).Int("slides", slideCount).Msg("generate: job submitted")
	return jobID, nil
}

// GenerateSync performs the same work as Generate but blocks until the
// deck is built, bypassing the job table.
func (s *Service) GenerateSync(ctx context.Context, sessionID, userID, topic string, slideCount int, extraContext string) (*GenerateResult, error) {
	slideCount = normalizeSlideCount(slideCount)

	session, err := s.ownedSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.quota.CheckAndReserve(ctx, userID, slideCount); err != nil {
		return nil, err
	}
	return s.runGeneration(ctx, session, userID, topic, slideCount, extraContext, func(int, string) {})
}

func (s *Service) runGeneration(ctx context.Context, session *domain.Session, userID, topic string, slideCount int, extraContext string, progress func(int, string)) (*GenerateResult, error) {
	progress(10, "Generating outline...")

	resp, err := s.router.Generate(ctx, llm.Request{
		System:      outlineSystemPrompt,
		Prompt:      buildOutlinePrompt(topic, slideCount, session.Tone, session.ContextMemory, extraContext),
		Temperature: 0.7,
		MaxTokens:   outlineMaxTokens,
		JSON:        true,
	})
	if err != nil {
		return nil, err
	}

	progress(60, "Building presentation...")

	contents, err := parseOutline(resp.Content)
	if err != nil {
		return nil, err
	}

	memory := fmt.Sprintf("Created presentation about %s with %d slides", topic, len(contents))
	slides, err := s.decks.CreateSlides(ctx, session.ID, topic, memory, contents)
	if err != nil {
		return nil, err
	}

	progress(90, "Finalizing...")

	// Commit the quota increment only now that the slides exist.
	if _, err := s.quota.Commit(ctx, userID, len(slides)); err != nil {
		return nil, err
	}

	s.recordChat(ctx, session.ID, 0,
		fmt.Sprintf("Create a presentation about: %s", topic),
		fmt.Sprintf("Created %d slides about %s", len(slides), topic))

	progress(100, "Complete!")

	s.logger.Info().Str("session_id", session.ID).Str("provider", resp.Provider).
		Int("slides", len(slides)).Msg("generate: deck built")
	return &GenerateResult{Topic: topic, SlideCount: len(slides), Slides: slides}, nil
}

// EditSlide regenerates one slide from a natural-language instruction and
// appends the result as a new version. Parsing failures are not retried
// against another provider: the content shape is wrong, not the
// provider's availability.
func (s *Service) EditSlide(ctx context.Context, sessionID, userID string, slideNumber int, instruction string) (domain.SlideVersion, error) {
	session, err := s.ownedSession(ctx, sessionID, userID)
	if err != nil {
		return domain.SlideVersion{}, err
	}

	var current domain.SlideVersion
	found := false
	for _, slide := range session.Slides {
		if slide.Number == slideNumber {
			current = slide.Current()
			found = true
			break
		}
	}
	if !found {
		return domain.SlideVersion{}, domain.ErrSlideNotFound
	}

	if s.editConsumesQuota {
		if _, err := s.quota.CheckAndReserve(ctx, userID, 1); err != nil {
			return domain.SlideVersion{}, err
		}
	}

	resp, err := s.router.Generate(ctx, llm.Request{
		System:      buildEditSystemPrompt(current, session.Topic, session.Tone),
		Prompt:      buildEditPrompt(instruction, session.ContextMemory, otherSlidesSummary(session.Slides, slideNumber)),
		Temperature: 0.5,
		MaxTokens:   outlineMaxTokens,
		JSON:        true,
	})
	if err != nil {
		return domain.SlideVersion{}, err
	}

	content, err := parseSlide(resp.Content)
	if err != nil {
		return domain.SlideVersion{}, err
	}

	version, err := s.decks.ApplyEdit(ctx, sessionID, slideNumber, content, instruction)
	if err != nil {
		return domain.SlideVersion{}, err
	}

	if s.editConsumesQuota {
		if _, err := s.quota.Commit(ctx, userID, 1); err != nil {
			s.logger.Error().Err(err).Str("session_id", sessionID).Msg("generate: edit quota commit failed")
		}
	}

	s.recordChat(ctx, sessionID, slideNumber,
		instruction,
		fmt.Sprintf("Updated slide %d: %s", slideNumber, version.Title))
	return version, nil
}

// RollbackSlide moves a slide's current pointer to a prior version and
// notes it in the chat log.
func (s *Service) RollbackSlide(ctx context.Context, sessionID, userID string, slideNumber, versionIndex int) (domain.SlideVersion, error) {
	if _, err := s.ownedSession(ctx, sessionID, userID); err != nil {
		return domain.SlideVersion{}, err
	}
	version, err := s.decks.Rollback(ctx, sessionID, slideNumber, versionIndex)
	if err != nil {
		return domain.SlideVersion{}, err
	}
	if err := s.decks.AddChatMessage(ctx, sessionID, "assistant",
		fmt.Sprintf("Rolled back slide %d to version %d: %s", slideNumber, versionIndex, version.Title), slideNumber); err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("generate: chat record failed")
	}
	return version, nil
}

// ownedSession loads the session and verifies ownership. A session that
// belongs to someone else reads as not found so identifiers cannot be
// probed.
func (s *Service) ownedSession(ctx context.Context, sessionID, userID string) (*domain.Session, error) {
	session, err := s.decks.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (s *Service) recordChat(ctx context.Context, sessionID string, relatedSlide int, userMsg, assistantMsg string) {
	if err := s.decks.AddChatMessage(ctx, sessionID, "user", userMsg, relatedSlide); err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("generate: chat record failed")
		return
	}
	if err := s.decks.AddChatMessage(ctx, sessionID, "assistant", assistantMsg, relatedSlide); err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("generate: chat record failed")
	}
}

func normalizeSlideCount(n int) int {
	if n <= 0 {
		return DefaultSlideCount
	}
	if n > MaxSlideCount {
		return MaxSlideCount
	}
	return n
}
