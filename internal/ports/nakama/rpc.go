package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"punto/internal/app"
	"punto/internal/domain"
	"punto/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// rpcHandlers bundles the dependencies the court RPCs need beyond the
// per-call Nakama module.
type rpcHandlers struct {
	access        *app.AccessService
	adminPassword string
}

// RegisterRPCs registers the court lifecycle RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer, access *app.AccessService, adminPassword string) error {
	h := &rpcHandlers{access: access, adminPassword: adminPassword}

	if err := initializer.RegisterRpc(RpcCreateCourt, h.rpcCreateCourt); err != nil {
		return err
	}
	if err := initializer.RegisterRpc(RpcEnterCourt, h.rpcEnterCourt); err != nil {
		return err
	}
	return initializer.RegisterRpc(RpcSpectateCourt, h.rpcSpectateCourt)
}

type createCourtRequest struct {
	AdminPassword string `json:"admin_password"`
	CourtName     string `json:"court_name"`
	CourtPassword string `json:"court_password"`
}

type createCourtResponse struct {
	Court string `json:"court"`
}

type enterCourtRequest struct {
	CourtName string `json:"court_name"`
	Password  string `json:"password"`
}

type spectateCourtRequest struct {
	CourtName string `json:"court_name"`
}

type courtAccessResponse struct {
	MatchID string `json:"match_id"`
	Token   string `json:"token"`
	Role    string `json:"role"`
	Court   string `json:"court"`
}

// Validation errors surfaced to the initiating client; they never reach
// the scoring engine.
var (
	errInvalidAdminPassword  = errors.New("invalid admin password")
	errCourtNameRequired     = errors.New("court name required")
	errCourtPasswordTooShort = fmt.Errorf("court password must be at least %d characters", app.MinCourtPasswordLen)
	errPasswordRequired      = errors.New("password required")
	errIncorrectPassword     = errors.New("incorrect password")
)

func validateCreateCourt(req createCourtRequest, adminPassword string) error {
	if req.AdminPassword != adminPassword {
		return errInvalidAdminPassword
	}
	if strings.TrimSpace(req.CourtName) == "" {
		return errCourtNameRequired
	}
	if len(strings.TrimSpace(req.CourtPassword)) < app.MinCourtPasswordLen {
		return errCourtPasswordTooShort
	}
	return nil
}

func (h *rpcHandlers) rpcCreateCourt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req createCourtRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", fmt.Errorf("invalid payload: %w", err)
	}

	if err := validateCreateCourt(req, h.adminPassword); err != nil {
		return "", err
	}

	rec := domain.NewCourtRecord(req.CourtName, strings.TrimSpace(req.CourtPassword))
	store := NewNakamaCourtStore(nk)
	if _, err := store.Create(ctx, rec); err != nil {
		if errors.Is(err, ports.ErrCourtExists) {
			return "", fmt.Errorf("court name already exists")
		}
		logger.Error("rpcCreateCourt: Failed to create record for %q: %v", rec.Name, err)
		return "", err
	}

	logger.Info("rpcCreateCourt: Court %q created.", rec.Name)

	resp, _ := json.Marshal(createCourtResponse{Court: rec.Name})
	return string(resp), nil
}

func (h *rpcHandlers) rpcEnterCourt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req enterCourtRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", fmt.Errorf("invalid payload: %w", err)
	}
	if strings.TrimSpace(req.CourtName) == "" {
		return "", errCourtNameRequired
	}
	if req.Password == "" {
		return "", errPasswordRequired
	}

	store := NewNakamaCourtStore(nk)
	rec, _, err := store.Load(ctx, req.CourtName)
	if err != nil {
		if errors.Is(err, ports.ErrCourtNotFound) {
			return "", fmt.Errorf("court not found")
		}
		logger.Error("rpcEnterCourt: Failed to load court %q: %v", req.CourtName, err)
		return "", err
	}

	// The elevated admin password bypasses the per-court secret.
	if req.Password != rec.Password && req.Password != h.adminPassword {
		return "", errIncorrectPassword
	}

	return h.courtAccess(ctx, logger, nk, rec, app.RoleScorer)
}

func (h *rpcHandlers) rpcSpectateCourt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req spectateCourtRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", fmt.Errorf("invalid payload: %w", err)
	}
	if strings.TrimSpace(req.CourtName) == "" {
		return "", errCourtNameRequired
	}

	store := NewNakamaCourtStore(nk)
	rec, _, err := store.Load(ctx, req.CourtName)
	if err != nil {
		if errors.Is(err, ports.ErrCourtNotFound) {
			return "", fmt.Errorf("court not found")
		}
		logger.Error("rpcSpectateCourt: Failed to load court %q: %v", req.CourtName, err)
		return "", err
	}

	return h.courtAccess(ctx, logger, nk, rec, app.RoleSpectator)
}

// courtAccess resolves the court's match and issues an access token for
// the requested role.
func (h *rpcHandlers) courtAccess(ctx context.Context, logger runtime.Logger, nk runtime.NakamaModule, rec domain.CourtRecord, role string) (string, error) {
	key := domain.NormalizeCourtName(rec.Name)

	matchID, err := findOrCreateMatch(ctx, logger, nk, key)
	if err != nil {
		return "", err
	}

	token, err := h.access.GenerateToken(key, role, app.PasswordFingerprint(rec.Password))
	if err != nil {
		logger.Error("courtAccess: Failed to issue token for %q: %v", key, err)
		return "", err
	}

	resp, _ := json.Marshal(courtAccessResponse{
		MatchID: matchID,
		Token:   token,
		Role:    role,
		Court:   rec.Name,
	})
	return string(resp), nil
}

// findOrCreateMatch returns the running match for a court, creating one
// when none is advertised. Two racing creators may briefly run two
// matches for one court; both converge through the shared record's
// last-write-wins storage, so the race is benign.
func findOrCreateMatch(ctx context.Context, logger runtime.Logger, nk runtime.NakamaModule, courtKey string) (string, error) {
	query := fmt.Sprintf("+label.court:%q", courtKey)

	limit := 1
	authoritative := true

	matches, err := nk.MatchList(ctx, limit, authoritative, "", nil, nil, query)
	if err != nil {
		logger.Error("findOrCreateMatch: Failed to list matches for %q: %v", courtKey, err)
		return "", err
	}
	if len(matches) > 0 {
		return matches[0].MatchId, nil
	}

	matchID, err := nk.MatchCreate(ctx, MatchNamePunto, map[string]interface{}{"court": courtKey})
	if err != nil {
		logger.Error("findOrCreateMatch: Failed to create match for %q: %v", courtKey, err)
		return "", err
	}

	logger.Info("findOrCreateMatch: Created match %s for court %q", matchID, courtKey)
	return matchID, nil
}
