package interview

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tidwall/gjson"

	"tenantdesk/internal/domain"
	"tenantdesk/internal/storage"
)

var (
	ErrNotFound = errors.New("interview not found")
	ErrExpired  = errors.New("interview expired")
)

const (
	LoadLoaded   = "loaded"
	LoadNotFound = "not_found"
	LoadExpired  = "expired"
)

type Created struct {
	ID   string `json:"id"`
	Link string `json:"link"`
}

// Definitions stores landlord questionnaires and loads them for tenants.
type Definitions struct {
	store    storage.Store
	baseURL  string
	now      func() time.Time
	observer Observer
	logger   *slog.Logger
}

func NewDefinitions(store storage.Store, baseURL string, opts SessionOptions) *Definitions {
	opts = opts.withDefaults()
	return &Definitions{
		store:    store,
		baseURL:  baseURL,
		now:      opts.Now,
		observer: opts.Observer,
		logger:   opts.Logger,
	}
}

func (d *Definitions) Create(in domain.Interview) (Created, error) {
	if err := domain.ValidateInterview(in); err != nil {
		return Created{}, err
	}

	id, err := storage.NewInterviewID()
	if err != nil {
		return Created{}, err
	}

	payload, err := json.Marshal(in)
	if err != nil {
		return Created{}, fmt.Errorf("encode interview: %w", err)
	}
	if err := d.store.Put(storage.InterviewKey(id), payload); err != nil {
		return Created{}, fmt.Errorf("store interview %s: %w", id, err)
	}

	d.logger.Info("interview created", "interview_id", id, "questions", len(in.Questions))
	return Created{ID: id, Link: d.Link(id)}, nil
}

func (d *Definitions) Link(id string) string {
	return fmt.Sprintf("%s/personality_check/interview/%s", d.baseURL, id)
}

// Load returns the stored interview. Expiry is read straight from the raw
// payload before decoding, so an expired entry reports ErrExpired even when
// the rest of it is unreadable. Decode failures report ErrNotFound.
func (d *Definitions) Load(id string) (domain.Interview, error) {
	in, outcome, err := d.load(id)
	d.observer.InterviewLoaded(outcome)
	return in, err
}

func (d *Definitions) load(id string) (domain.Interview, string, error) {
	raw, err := d.store.Get(storage.InterviewKey(id))
	if errors.Is(err, storage.ErrNotFound) {
		return domain.Interview{}, LoadNotFound, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		return domain.Interview{}, LoadNotFound, fmt.Errorf("read interview %s: %w", id, err)
	}

	// The file store keeps malformed payloads as a JSON string.
	if parsed := gjson.ParseBytes(raw); parsed.Type == gjson.String {
		raw = []byte(parsed.Str)
	}

	if expiry := gjson.GetBytes(raw, "expiryDate"); expiry.Type == gjson.String {
		if ts, err := domain.ParseExpiry(expiry.Str); err == nil && d.now().After(ts) {
			return domain.Interview{}, LoadExpired, fmt.Errorf("%s: %w", id, ErrExpired)
		}
	}

	var in domain.Interview
	if err := json.Unmarshal(raw, &in); err != nil {
		d.logger.Warn("stored interview unreadable", "interview_id", id, "error", err)
		return domain.Interview{}, LoadNotFound, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if len(in.Questions) == 0 {
		return domain.Interview{}, LoadNotFound, fmt.Errorf("%s has no questions: %w", id, ErrNotFound)
	}
	return in, LoadLoaded, nil
}
