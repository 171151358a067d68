package setupflow

import (
	"context"

	"go.uber.org/zap"

	"github.com/splinter98/lgnetcast/internal/discovery"
	"github.com/splinter98/lgnetcast/internal/netcast"
)

// DefaultName is the display name used when discovery could not resolve one.
const DefaultName = "LG Netcast TV"

// Step identifies the flow state a Result belongs to.
type Step string

const (
	StepEntry      Step = "entry"
	StepPickDevice Step = "pick_device"
	StepAuthorize  Step = "authorize"
	StepCreated    Step = "created"
	StepAbort      Step = "abort"
)

// Form field names and error codes surfaced to the host collaborator.
const (
	FieldHost        = "host"
	FieldAccessToken = "access_token"
	FieldDevice      = "device"

	// FieldBase carries errors not tied to a single field
	FieldBase = "base"

	ErrInvalidHost        = "invalid_host"
	ErrInvalidAccessToken = "invalid_access_token"
	ErrCannotConnect      = "cannot_connect"
	ErrUnknownDevice      = "unknown_device"
)

// Abort reason codes.
const (
	AbortNoDevicesFound    = "no_devices_found"
	AbortAlreadyConfigured = "already_configured"
	AbortInvalidHost       = "invalid_host"
)

// DeviceConfig accumulates the record being built across flow steps. It
// exists for the duration of one configuration attempt and is finalized
// into a persisted entry by the host collaborator.
type DeviceConfig struct {
	Host        string
	AccessToken string
	Name        string
	ID          string
}

// Candidate is one selectable discovered device.
type Candidate struct {
	Host string
	Name string
}

// State is the explicit machine value: the current step tag plus everything
// accumulated so far. Each submit call takes a State and returns the next
// one - nothing is carried in hidden instance fields.
type State struct {
	Step       Step
	Config     DeviceConfig
	Candidates map[string]Candidate
}

// Discoverer is the slice of the scanner the flow needs.
type Discoverer interface {
	Discover(ctx context.Context) []discovery.DeviceRecord
}

// EntryStore enumerates already-configured device ids, for duplicate
// exclusion.
type EntryStore interface {
	ConfiguredIDs() []string
}

// SessionFunc opens a control session against host with the given access
// token. Production flows use netcast.Client; tests substitute their own.
type SessionFunc func(ctx context.Context, host, accessToken string) error

// Flow drives the interactive configuration of one NetCast TV.
type Flow struct {
	scanner     Discoverer
	store       EntryStore
	openSession SessionFunc
	log         *zap.Logger
}

// New creates a flow backed by the given scanner and entry store.
func New(scanner Discoverer, store EntryStore, log *zap.Logger) *Flow {
	return &Flow{
		scanner: scanner,
		store:   store,
		openSession: func(ctx context.Context, host, accessToken string) error {
			_, err := netcast.NewClient(host, accessToken).GetSessionID(ctx)
			return err
		},
		log: log,
	}
}

// SetSessionFunc overrides how sessions are opened. Test seam.
func (f *Flow) SetSessionFunc(open SessionFunc) {
	f.openSession = open
}

// Start begins a configuration attempt at the entry step.
func (f *Flow) Start() (State, Outcome) {
	state := State{Step: StepEntry}
	return state, formOutcome(StepEntry, nil, nil)
}

// SubmitEntry handles the entry step. An empty host branches into device
// discovery; a syntactically invalid host re-shows the entry form with a
// validation error; a valid host advances straight to authorize.
func (f *Flow) SubmitEntry(ctx context.Context, state State, host string) (State, Outcome) {
	if host == "" {
		return f.pickDevice(ctx, state)
	}
	if !IsValidHost(host) {
		return state, formOutcome(StepEntry, map[string]string{FieldHost: ErrInvalidHost}, nil)
	}
	state.Config.Host = host
	state.Step = StepAuthorize
	return f.authorize(ctx, state, nil)
}

// SubmitPick handles the selection made on the pick_device form. The chosen
// candidate fixes host, unique id and display name before advancing to
// authorize. A unique id that got configured since the form was shown
// aborts the flow.
func (f *Flow) SubmitPick(ctx context.Context, state State, uniqueID string) (State, Outcome) {
	candidate, ok := state.Candidates[uniqueID]
	if !ok {
		return state, formOutcome(StepPickDevice,
			map[string]string{FieldDevice: ErrUnknownDevice}, candidateNames(state.Candidates))
	}
	if f.isConfigured(uniqueID) {
		state.Step = StepAbort
		return state, abortOutcome(AbortAlreadyConfigured)
	}

	state.Config.Host = candidate.Host
	state.Config.ID = uniqueID
	state.Config.Name = candidate.Name
	state.Step = StepAuthorize
	return f.authorize(ctx, state, nil)
}

// SubmitAuthorize handles a user submission of the authorize form. token
// points at the (possibly empty) access token the user entered; the flow's
// internal first entry into authorize passes nil instead, which suppresses
// the invalid-token error for the initial tokenless attempt.
func (f *Flow) SubmitAuthorize(ctx context.Context, state State, token string) (State, Outcome) {
	return f.authorize(ctx, state, &token)
}

func (f *Flow) authorize(ctx context.Context, state State, token *string) (State, Outcome) {
	submitted := token != nil
	if submitted && *token != "" {
		state.Config.AccessToken = *token
	}
	state.Step = StepAuthorize

	if state.Config.AccessToken != "" && len(state.Config.AccessToken) > netcast.MaxAccessTokenLength {
		return state, formOutcome(StepAuthorize,
			map[string]string{FieldAccessToken: ErrInvalidAccessToken}, nil)
	}

	err := f.openSession(ctx, state.Config.Host, state.Config.AccessToken)
	if err == nil {
		return f.create(state)
	}

	errors := map[string]string{}
	switch classifySessionError(err) {
	case sessionTokenRejected:
		// First pass with no token just shows the form; the TV is busy
		// putting its PIN on screen
		if submitted {
			errors[FieldAccessToken] = ErrInvalidAccessToken
		}
	default:
		errors[FieldBase] = ErrCannotConnect
	}
	if len(errors) == 0 {
		errors = nil
	}
	f.log.Debug("Authorize attempt failed",
		zap.String("host", state.Config.Host), zap.Error(err))
	return state, formOutcome(StepAuthorize, errors, nil)
}

func (f *Flow) pickDevice(ctx context.Context, state State) (State, Outcome) {
	configured := make(map[string]struct{})
	for _, id := range f.store.ConfiguredIDs() {
		configured[id] = struct{}{}
	}

	state.Candidates = make(map[string]Candidate)
	for _, record := range f.scanner.Discover(ctx) {
		if record.ServiceType() != discovery.SearchTarget {
			continue
		}
		uniqueID := record.UniqueID
		if uniqueID == "" {
			continue
		}
		if _, ok := configured[uniqueID]; ok {
			continue
		}
		host := record.Host()
		if host == "" {
			continue
		}
		name := record.ModelName()
		if name == "" {
			name = DefaultName
		}
		state.Candidates[uniqueID] = Candidate{Host: host, Name: name}
	}

	if len(state.Candidates) == 0 {
		state.Step = StepAbort
		return state, abortOutcome(AbortNoDevicesFound)
	}

	state.Step = StepPickDevice
	return state, formOutcome(StepPickDevice, nil, candidateNames(state.Candidates))
}

func (f *Flow) create(state State) (State, Outcome) {
	if state.Config.ID == "" {
		// Manual host entry without discovery: no id was resolved, so no
		// name either
		state.Config.Name = DefaultName
	}
	state.Step = StepCreated
	return state, Outcome{
		Kind:  ResultCreate,
		Step:  StepCreated,
		Title: state.Config.Name,
		Data:  state.Config,
	}
}

// Import validates a complete, externally supplied record (host, token,
// name, id) and finalizes it without showing forms. Mirrors the automated
// import path of the host platform.
func (f *Flow) Import(config DeviceConfig) Outcome {
	if !IsValidHost(config.Host) {
		return abortOutcome(AbortInvalidHost)
	}
	if config.ID != "" && f.isConfigured(config.ID) {
		return abortOutcome(AbortAlreadyConfigured)
	}
	if config.Name == "" {
		config.Name = DefaultName
	}
	return Outcome{
		Kind:  ResultCreate,
		Step:  StepCreated,
		Title: config.Name,
		Data:  config,
	}
}

func (f *Flow) isConfigured(uniqueID string) bool {
	for _, id := range f.store.ConfiguredIDs() {
		if id == uniqueID {
			return true
		}
	}
	return false
}

func candidateNames(candidates map[string]Candidate) map[string]string {
	names := make(map[string]string, len(candidates))
	for id, candidate := range candidates {
		names[id] = candidate.Name
	}
	return names
}
