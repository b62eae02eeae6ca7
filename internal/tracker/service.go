package tracker

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/balkashynov/inctrack/internal/models"
	"github.com/balkashynov/inctrack/internal/parser"
)

// AddIncidentRequest holds the data collected by the add form
type AddIncidentRequest struct {
	CreatedOn   time.Time
	TicketID    string // empty means use the suggested ID
	Description string // may span several lines
}

// AddIncidentResult is what AddIncident stored
type AddIncidentResult struct {
	Incident  models.Incident
	Generated bool // the ticket ID was suggested, not typed
	Duplicate bool // another incident already uses this ticket ID
}

// StartSessionRequest asks to start tracking a ticket
type StartSessionRequest struct {
	TicketID string
}

// StopSessionRequest asks to stop tracking a ticket
type StopSessionRequest struct {
	TicketID string
}

// ListOptions controls Incidents ordering
type ListOptions struct {
	LatestFirst bool
}

// Service is the entry point the CLI and TUI talk to
type Service struct {
	tickets    TicketStore
	activities ActivityStore
	sessions   *SessionManager
	exporter   Exporter
	clock      Clock
	logger     *slog.Logger
}

// Option configures a Service
type Option func(*Service)

// WithClock replaces the wall clock
func WithClock(c Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithLogger sets the logger used for use-case events
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithExporter enables Export and Path
func WithExporter(e Exporter) Option {
	return func(s *Service) { s.exporter = e }
}

// NewService wires the stores together and makes sure both tables exist
func NewService(tickets TicketStore, activities ActivityStore, opts ...Option) (*Service, error) {
	s := &Service{
		tickets:    tickets,
		activities: activities,
		clock:      SystemClock{},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.sessions = NewSessionManager(activities, s.clock)

	if err := tickets.EnsureSchema(); err != nil {
		return nil, fmt.Errorf("failed to prepare incidents table: %w", err)
	}
	if err := activities.EnsureSchema(); err != nil {
		return nil, fmt.Errorf("failed to prepare activity table: %w", err)
	}
	return s, nil
}

// Now returns the service clock's time
func (s *Service) Now() time.Time {
	return s.clock.Now()
}

// SuggestTicketID returns the next free generated ID for the day
func (s *Service) SuggestTicketID(day time.Time) (string, error) {
	incidents, err := s.tickets.ListAll()
	if err != nil {
		return "", fmt.Errorf("failed to read incidents: %w", err)
	}
	return parser.SuggestTicketID(day, ticketSet(incidents))
}

// AddIncident validates and appends one incident
func (s *Service) AddIncident(req AddIncidentRequest) (res *AddIncidentResult, err error) {
	defer s.observe("add_incident", time.Now(), &err, "ticket_id", req.TicketID)

	description := parser.NormalizeDescription(req.Description)
	if description == "" {
		return nil, ErrEmptyDescription
	}

	createdOn := req.CreatedOn
	if createdOn.IsZero() {
		createdOn = s.clock.Now()
	}
	createdOn = parser.StartOfDay(createdOn)

	incidents, err := s.tickets.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read incidents: %w", err)
	}
	existing := ticketSet(incidents)

	res = &AddIncidentResult{}
	ticketID := strings.TrimSpace(req.TicketID)
	if ticketID == "" {
		ticketID, err = parser.SuggestTicketID(createdOn, existing)
		if err != nil {
			return nil, err
		}
		res.Generated = true
	} else if _, ok := existing[ticketID]; ok {
		res.Duplicate = true
	}

	incident := models.Incident{
		CreatedOn:   createdOn,
		TicketID:    ticketID,
		Description: description,
	}
	if err := s.tickets.Append(incident); err != nil {
		return nil, err
	}

	res.Incident = incident
	return res, nil
}

// Incidents lists all incidents with their last activity time
func (s *Service) Incidents(opts ListOptions) ([]models.Incident, error) {
	incidents, err := s.tickets.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read incidents: %w", err)
	}
	sessions, err := s.activities.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read activity: %w", err)
	}

	latest := make(map[string]time.Time)
	for _, session := range sessions {
		if t := session.LatestTime(); t.After(latest[session.TicketID]) {
			latest[session.TicketID] = t
		}
	}
	for i := range incidents {
		incidents[i].LastActivity = incidents[i].CreatedOn
		if t, ok := latest[incidents[i].TicketID]; ok && t.After(incidents[i].LastActivity) {
			incidents[i].LastActivity = t
		}
	}

	if opts.LatestFirst {
		// same-day incidents: most recently added first
		slices.Reverse(incidents)
		sort.SliceStable(incidents, func(i, j int) bool {
			return incidents[i].CreatedOn.After(incidents[j].CreatedOn)
		})
	}
	return incidents, nil
}

// Sessions returns every session of a ticket, oldest first
func (s *Service) Sessions(ticketID string) ([]models.Session, error) {
	return s.activities.ListFor(strings.TrimSpace(ticketID))
}

// AllSessions returns every recorded session, oldest first
func (s *Service) AllSessions() ([]models.Session, error) {
	return s.activities.ListAll()
}

// OpenSessions returns the sessions that are still running
func (s *Service) OpenSessions() ([]models.Session, error) {
	sessions, err := s.activities.ListAll()
	if err != nil {
		return nil, err
	}
	var open []models.Session
	for _, session := range sessions {
		if session.IsOpen() {
			open = append(open, session)
		}
	}
	return open, nil
}

// Running returns the ticket's open session, or nil
func (s *Service) Running(ticketID string) (*models.Session, error) {
	return s.sessions.Running(strings.TrimSpace(ticketID))
}

// Start begins tracking time on a ticket
func (s *Service) Start(req StartSessionRequest) (session *models.Session, err error) {
	defer s.observe("start_session", time.Now(), &err, "ticket_id", req.TicketID)

	ticketID := strings.TrimSpace(req.TicketID)
	if ticketID == "" {
		return nil, ErrEmptyTicketID
	}
	return s.sessions.Start(ticketID)
}

// Stop ends the running session of a ticket
func (s *Service) Stop(req StopSessionRequest) (session *models.Session, err error) {
	defer s.observe("stop_session", time.Now(), &err, "ticket_id", req.TicketID)

	ticketID := strings.TrimSpace(req.TicketID)
	if ticketID == "" {
		return nil, ErrEmptyTicketID
	}
	return s.sessions.Stop(ticketID)
}

// Path returns the backing file location
func (s *Service) Path() string {
	if s.exporter == nil {
		return ""
	}
	return s.exporter.Path()
}

// Export copies the backing file into dir and returns the new path
func (s *Service) Export(dir string, overwrite bool) (dest string, err error) {
	defer s.observe("export", time.Now(), &err, "dir", dir)

	if s.exporter == nil {
		return "", fmt.Errorf("export is not supported by this backend")
	}
	return s.exporter.ExportTo(dir, overwrite)
}

func (s *Service) observe(name string, started time.Time, errp *error, fields ...any) {
	attrs := append([]any{
		"use_case", name,
		"duration_ms", time.Since(started).Milliseconds(),
		"success", *errp == nil,
	}, fields...)
	if *errp != nil {
		s.logger.Warn("use case failed", append(attrs, "error", (*errp).Error())...)
		return
	}
	s.logger.Info("use case done", attrs...)
}

func ticketSet(incidents []models.Incident) map[string]struct{} {
	ids := make([]string, 0, len(incidents))
	for _, incident := range incidents {
		ids = append(ids, incident.TicketID)
	}
	return parser.TicketSet(ids)
}
