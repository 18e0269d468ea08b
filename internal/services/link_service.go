package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shrinkearn/backend/internal/linkmeta"
	"github.com/shrinkearn/backend/internal/models"
	"github.com/shrinkearn/backend/internal/repositories"
	"go.uber.org/zap"
)

var (
	ErrInvalidTargetURL = errors.New("target URL must be an absolute http or https URL")
	ErrAliasTaken       = errors.New("alias is already in use")
	ErrLinkDisabled     = errors.New("link is disabled")
	ErrLinkNotOwned     = errors.New("link does not belong to this user")
)

var aliasPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,32}$`)

const aliasAlphabet = "abcdefghijkmnpqrstuvwxyz23456789"

type LinkService struct {
	linkRepo   *repositories.LinkRepo
	adRateRepo *repositories.AdRateRepo
	userRepo   *repositories.UserRepo
	metaFetch  *linkmeta.Fetcher
	log        *zap.Logger
}

func NewLinkService(linkRepo *repositories.LinkRepo, adRateRepo *repositories.AdRateRepo, userRepo *repositories.UserRepo, metaFetch *linkmeta.Fetcher, log *zap.Logger) *LinkService {
	return &LinkService{
		linkRepo:   linkRepo,
		adRateRepo: adRateRepo,
		userRepo:   userRepo,
		metaFetch:  metaFetch,
		log:        log,
	}
}

// Create validates the destination, assigns an alias when none was chosen
// and stores the link. The destination title is fetched in the background;
// a link works fine without one.
func (s *LinkService) Create(ctx context.Context, userID uuid.UUID, targetURL, alias string, adLevel int) (*models.Link, error) {
	targetURL = strings.TrimSpace(targetURL)
	parsed, err := url.Parse(targetURL)
	if err != nil || !parsed.IsAbs() || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, ErrInvalidTargetURL
	}

	if adLevel < models.AdLevelMin || adLevel > models.AdLevelMax {
		adLevel = models.AdLevelMin
	}

	alias = strings.TrimSpace(alias)
	if alias != "" {
		if !aliasPattern.MatchString(alias) {
			return nil, errors.New("alias must be 3-32 characters of letters, digits, - or _")
		}
		if _, err := s.linkRepo.GetByAlias(ctx, alias); err == nil {
			return nil, ErrAliasTaken
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
	} else {
		alias, err = s.generateAlias(ctx)
		if err != nil {
			return nil, err
		}
	}

	link := &models.Link{
		UserID:    userID,
		Alias:     alias,
		TargetURL: targetURL,
		AdLevel:   adLevel,
		Status:    models.LinkStatusActive,
	}
	if err := s.linkRepo.Create(ctx, link); err != nil {
		return nil, fmt.Errorf("failed to create link: %w", err)
	}

	go s.fetchTitle(link.ID, targetURL)

	return link, nil
}

// generateAlias draws random aliases until one is free. Collisions at this
// keyspace are rare; five attempts is already generous.
func (s *LinkService) generateAlias(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		b := make([]byte, 7)
		for i := range b {
			n, err := rand.Int(rand.Reader, big.NewInt(int64(len(aliasAlphabet))))
			if err != nil {
				return "", err
			}
			b[i] = aliasAlphabet[n.Int64()]
		}
		alias := string(b)

		_, err := s.linkRepo.GetByAlias(ctx, alias)
		if errors.Is(err, pgx.ErrNoRows) {
			return alias, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", errors.New("could not generate a free alias")
}

func (s *LinkService) fetchTitle(linkID uuid.UUID, targetURL string) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	meta, err := s.metaFetch.Fetch(ctx, targetURL)
	if err != nil || meta.Title == "" {
		s.log.Debug("link title fetch failed", zap.String("link_id", linkID.String()), zap.Error(err))
		return
	}
	if err := s.linkRepo.UpdateTitle(ctx, linkID, meta.Title); err != nil {
		s.log.Warn("failed to store link title", zap.String("link_id", linkID.String()), zap.Error(err))
	}
}

func (s *LinkService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Link, error) {
	return s.linkRepo.ListByUser(ctx, userID, limit, offset)
}

// Resolve looks up an active link by alias, counts the click and credits
// the owner the CPC for the visitor's country. Credit failures are logged,
// never surfaced: the visitor still gets the redirect.
func (s *LinkService) Resolve(ctx context.Context, alias, country string) (*models.Link, error) {
	link, err := s.linkRepo.GetByAlias(ctx, alias)
	if err != nil {
		return nil, err
	}
	if link.Status != models.LinkStatusActive {
		return nil, ErrLinkDisabled
	}

	if err := s.linkRepo.IncrementClicks(ctx, link.ID); err != nil {
		s.log.Warn("failed to count click", zap.String("link_id", link.ID.String()), zap.Error(err))
	}

	rate, err := s.adRateRepo.GetForClick(ctx, link.AdLevel, strings.ToUpper(country))
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			s.log.Warn("failed to load ad rate", zap.Int("level", link.AdLevel), zap.Error(err))
		}
		return link, nil
	}
	if err := s.userRepo.AddBalance(ctx, link.UserID, rate.CPCUSD); err != nil {
		s.log.Error("failed to credit click",
			zap.String("link_id", link.ID.String()),
			zap.String("user_id", link.UserID.String()),
			zap.Error(err))
	}
	return link, nil
}

func (s *LinkService) SetStatus(ctx context.Context, userID, id uuid.UUID, status string) error {
	if status != models.LinkStatusActive && status != models.LinkStatusDisabled {
		return fmt.Errorf("unknown link status %q", status)
	}
	link, err := s.linkRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if link.UserID != userID {
		return ErrLinkNotOwned
	}
	return s.linkRepo.UpdateStatus(ctx, id, status)
}

func (s *LinkService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.linkRepo.Delete(ctx, userID, id)
}
