package gateway

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/processlens/gateway/pkg/authguard"
	"github.com/processlens/gateway/pkg/logger"
	"github.com/processlens/gateway/pkg/metrics"
	"github.com/processlens/gateway/pkg/relay"
	"github.com/processlens/gateway/pkg/requestid"
	"github.com/processlens/gateway/pkg/tempstore"
	"github.com/processlens/gateway/pkg/upload"
)

// RelayClient forwards a staged file to the analytics backend.
type RelayClient interface {
	Relay(ctx context.Context, staged *tempstore.StagedFile, bearerToken string) (*relay.Reply, error)
}

// Gateway wires authentication, staging, validation, and the backend relay
// into a single upload pipeline.
type Gateway struct {
	guard     *authguard.Guard
	store     *tempstore.Store
	validator *upload.Validator
	backend   RelayClient
	log       *slog.Logger
	metrics   *metrics.Recorder
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithLogger sets the logger used for request processing.
func WithLogger(log *slog.Logger) Option {
	if log == nil {
		panic("gateway: nil logger")
	}
	return func(g *Gateway) { g.log = log }
}

// WithMetrics enables upload lifecycle metrics.
func WithMetrics(rec *metrics.Recorder) Option {
	if rec == nil {
		panic("gateway: nil metrics recorder")
	}
	return func(g *Gateway) { g.metrics = rec }
}

// New creates a Gateway. All four collaborators are required.
func New(guard *authguard.Guard, store *tempstore.Store, validator *upload.Validator, backend RelayClient, opts ...Option) *Gateway {
	if guard == nil {
		panic("gateway: nil auth guard")
	}
	if store == nil {
		panic("gateway: nil temp store")
	}
	if validator == nil {
		panic("gateway: nil validator")
	}
	if backend == nil {
		panic("gateway: nil relay client")
	}
	g := &Gateway{
		guard:     guard,
		store:     store,
		validator: validator,
		backend:   backend,
		log:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// result is the terminal outcome of one upload request.
type result struct {
	status   int
	envelope relay.Envelope
	state    State
}

func failure(msg string) relay.Envelope {
	return relay.Envelope{Success: false, Message: msg}
}

// multipart form values are not expected; the memory threshold only bounds
// how much of the file part is buffered before spilling to disk.
const parseMemoryLimit = 32 << 20

// headroom for multipart boundaries and part headers on top of the file
// size ceiling enforced by the validator.
const multipartOverhead = 64 << 10

// process runs a single upload through the lifecycle and returns the
// terminal outcome. The staged file, if any, is released before process
// returns, so the caller writes the response only after cleanup.
func (g *Gateway) process(r *http.Request) result {
	ctx := r.Context()
	lc := newLifecycle()

	var staged *tempstore.StagedFile
	defer func() {
		if staged == nil {
			return
		}
		if err := staged.Release(); err != nil {
			g.log.ErrorContext(ctx, "failed to remove staged file",
				logger.Error(err),
				slog.String("path", staged.Path()))
		}
	}()
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	lc.advance(StateAuthenticating)
	identity, err := g.guard.Authenticate(r)
	if err != nil {
		lc.advance(StateUnauthenticated)
		msg := "Authentication required."
		if errors.Is(err, authguard.ErrTokenUnavailable) {
			msg = "Session token unavailable. Please sign in again."
		}
		g.log.WarnContext(ctx, "upload rejected", logger.Error(err))
		return result{http.StatusUnauthorized, failure(msg), lc.current()}
	}
	ctx = authguard.WithIdentity(ctx, identity)

	lc.advance(StateParsing)
	r.Body = http.MaxBytesReader(nil, r.Body, g.validator.MaxBytes()+multipartOverhead)
	if err := r.ParseMultipartForm(parseMemoryLimit); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			lc.advance(StateInvalidFile)
			g.log.WarnContext(ctx, "upload rejected", logger.Error(err), logger.UserID(identity.UserID))
			return result{http.StatusBadRequest, failure(tooLargeMessage(g.validator.MaxBytes())), lc.current()}
		}
		lc.advance(StateMalformedUpload)
		g.log.WarnContext(ctx, "upload rejected", logger.Error(err), logger.UserID(identity.UserID))
		return result{http.StatusBadRequest, failure("Malformed upload request. Expected multipart form data with a single file field."), lc.current()}
	}

	files := r.MultipartForm.File[relay.FileFieldName]
	if err := g.validator.ValidateFileCount(len(files)); err != nil {
		lc.advance(StateInvalidFile)
		g.log.WarnContext(ctx, "upload rejected", logger.Error(err), logger.UserID(identity.UserID))
		return result{http.StatusBadRequest, failure(fileCountMessage(len(files))), lc.current()}
	}
	fh := files[0]

	lc.advance(StateStaging)
	staged, err = g.store.Stage(ctx, g.requestID(ctx), fh)
	if err != nil {
		if ctx.Err() != nil {
			lc.advance(StateAborted)
			g.log.InfoContext(ctx, "upload aborted by client", logger.Error(ctx.Err()))
			return result{statusClientClosedRequest, failure("Upload aborted."), lc.current()}
		}
		lc.advance(StateStorageError)
		g.log.ErrorContext(ctx, "failed to stage upload", logger.Error(err), logger.Filename(fh.Filename))
		return result{http.StatusInternalServerError, failure("Temporary storage is unavailable. Please try again later."), lc.current()}
	}
	if g.metrics != nil {
		g.metrics.RecordStagedBytes(staged.Size())
	}

	lc.advance(StateValidating)
	if err := g.validate(fh.Filename, fh.Header.Get("Content-Type"), staged); err != nil {
		lc.advance(StateInvalidFile)
		g.log.WarnContext(ctx, "upload rejected",
			logger.Error(err),
			logger.UserID(identity.UserID),
			logger.Filename(fh.Filename))
		return result{http.StatusBadRequest, failure(validationMessage(err, g.validator.MaxBytes())), lc.current()}
	}

	lc.advance(StateRelaying)
	g.log.InfoContext(ctx, "relaying upload to backend",
		logger.UserID(identity.UserID),
		logger.Filename(staged.Name()),
		slog.Int64("size", staged.Size()))
	reply, err := g.backend.Relay(ctx, staged, identity.Token)
	if err != nil {
		if ctx.Err() != nil {
			lc.advance(StateAborted)
			g.log.InfoContext(ctx, "upload aborted by client", logger.Error(ctx.Err()))
			return result{statusClientClosedRequest, failure("Upload aborted."), lc.current()}
		}
		lc.advance(StateBadGateway)
		g.log.ErrorContext(ctx, "failed to reach analytics backend", logger.Error(err))
		return result{http.StatusBadGateway, failure("Analytics backend is unreachable. Please try again later."), lc.current()}
	}

	lc.advance(StateTranslating)
	status, env, ok := translate(reply)
	if !ok {
		lc.advance(StateInternalError)
		g.log.ErrorContext(ctx, "unexpected backend response",
			logger.BackendStatus(reply.StatusCode))
		return result{http.StatusInternalServerError, failure("Analytics backend returned an unexpected response."), lc.current()}
	}

	lc.advance(StateDone)
	return result{status, env, lc.current()}
}

// validate opens the staged copy so content sniffing reads what was actually
// written to disk, not the request stream.
func (g *Gateway) validate(filename, contentType string, staged *tempstore.StagedFile) error {
	f, err := staged.Open()
	if err != nil {
		return g.validator.Validate(filename, contentType, staged.Size(), nil)
	}
	defer f.Close()
	return g.validator.Validate(filename, contentType, staged.Size(), f)
}

func (g *Gateway) requestID(ctx context.Context) string {
	if id := requestid.FromContext(ctx); id != "" {
		return id
	}
	return uuid.New().String()
}

// translate maps the backend reply to the caller-facing status and envelope.
//
// A 200 from the backend must carry both the process graph and the insights;
// anything less means the contract was broken and the caller gets a 500. Any
// other status is mirrored as-is, with the backend's own success flag,
// message, and whatever partial data it attached.
func translate(reply *relay.Reply) (int, relay.Envelope, bool) {
	payload, err := reply.Envelope.DecodeData()
	if err != nil {
		return 0, relay.Envelope{}, false
	}

	if reply.StatusCode == http.StatusOK {
		if !payload.HasProcessGraph() || !payload.HasLLMInsights() {
			return 0, relay.Envelope{}, false
		}
		env := relay.Envelope{
			Success: reply.Envelope.Success,
			Message: reply.Envelope.Message,
			Data:    reply.Envelope.Data,
		}
		if env.Message == "" {
			env.Message = "File processed successfully."
		}
		return http.StatusOK, env, true
	}

	env := relay.Envelope{
		Success: reply.Envelope.Success,
		Message: reply.Envelope.Message,
	}
	if env.Message == "" {
		env.Message = "Analytics backend reported a failure."
	}
	if payload != nil && !payload.Empty() {
		env.Data = reply.Envelope.Data
	}
	return reply.StatusCode, env, true
}
