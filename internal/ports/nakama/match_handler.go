package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"punto/internal/app"
	"punto/internal/config"
	"punto/internal/domain"
	"punto/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// matchTickRate drives the match loop. Ten ticks per second keeps the
// hold-to-confirm durations within 100ms of their configured values.
const matchTickRate = 10

// Label is the match label advertised for court lookup queries.
type Label struct {
	Court   string `json:"court"`
	Clients int    `json:"clients"`
}

// pendingAccess carries verified join-attempt claims over to MatchJoin,
// which does not receive metadata.
type pendingAccess struct {
	role        string
	fingerprint string
}

// MatchState holds the authoritative runtime state for one court match.
type MatchState struct {
	CourtKey     string               // normalized court name, the storage key
	Record       domain.CourtRecord   // authoritative cache of the shared record
	Session      *domain.MatchSession // live score + undo history
	StoreVersion string               // last storage version written or adopted

	Tick      int64
	Presences map[string]runtime.Presence
	Roles     map[string]string // userID -> scorer | spectator
	JoinFps   map[string]string // userID -> password fingerprint at admission
	Pending   map[string]pendingAccess

	ScanGates map[string]*app.ScanGate // per scan channel (one per user device)
	Holds     *app.HoldGate

	cooldownTicks  int64
	holdTicks      map[app.ActionKind]int64
	pollEveryTicks int64
	nextPollTick   int64
}

// NewMatch returns the factory function registered with Nakama.
func NewMatch(access *app.AccessService) func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
		return &matchHandler{
			svc:    app.NewService(nil),
			access: access,
			store:  NewNakamaCourtStore(nk),
		}, nil
	}
}

type matchHandler struct {
	svc    *app.Service
	access *app.AccessService
	store  ports.CourtStore
}

// MatchInit loads the court's shared record and becomes its authority.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	courtKey, _ := params["court"].(string)
	if courtKey == "" {
		logger.Error("MatchInit: Missing court param.")
		return nil, 0, ""
	}

	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("MatchInit: Could not load game config: %v", err)
	}

	rec, version, err := mh.store.Load(ctx, courtKey)
	if err != nil {
		logger.Error("MatchInit: Failed to load court %q: %v", courtKey, err)
		return nil, 0, ""
	}

	session := domain.NewMatchSession(config.GetHistoryLimit())
	session.Adopt(rec.Score, rec.History)

	state := &MatchState{
		CourtKey:     courtKey,
		Record:       rec,
		Session:      session,
		StoreVersion: version,
		Presences:    make(map[string]runtime.Presence),
		Roles:        make(map[string]string),
		JoinFps:      make(map[string]string),
		Pending:      make(map[string]pendingAccess),
		ScanGates:    make(map[string]*app.ScanGate),
		Holds:        app.NewHoldGate(),

		cooldownTicks: app.TicksFor(app.CooldownMS, matchTickRate),
		holdTicks: map[app.ActionKind]int64{
			app.ActionUndo:  app.TicksFor(int64(config.GetUndoHoldMS()), matchTickRate),
			app.ActionReset: app.TicksFor(int64(config.GetResetHoldMS()), matchTickRate),
			app.ActionBack:  app.TicksFor(int64(config.GetBackHoldMS()), matchTickRate),
			app.ActionMute:  app.TicksFor(int64(config.GetMuteHoldMS()), matchTickRate),
		},
		pollEveryTicks: int64(config.GetStorePollSeconds()) * matchTickRate,
	}

	labelBytes, err := json.Marshal(Label{Court: courtKey})
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	return state, matchTickRate, string(labelBytes)
}

// MatchJoinAttempt admits only presences carrying a valid court token.
func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	claims, err := mh.access.VerifyToken(metadata["token"])
	if err != nil {
		logger.Warn("MatchJoinAttempt: Rejected %s: %v", presence.GetUserId(), err)
		return matchState, false, "invalid access token"
	}
	if claims.Court != matchState.CourtKey {
		return matchState, false, "token is for a different court"
	}

	matchState.Pending[presence.GetUserId()] = pendingAccess{
		role:        claims.Role,
		fingerprint: claims.Fingerprint,
	}
	return matchState, true, ""
}

// MatchJoin promotes admitted presences and sends each one the current
// record snapshot so it can replace its local state wholesale.
func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	currentFp := app.PasswordFingerprint(matchState.Record.Password)

	for _, p := range presences {
		uid := p.GetUserId()
		matchState.Presences[uid] = p

		pending, ok := matchState.Pending[uid]
		if !ok {
			// A rejoin after a transient disconnect has no pending entry;
			// keep the previous role if one exists, otherwise spectate.
			if _, had := matchState.Roles[uid]; !had {
				pending = pendingAccess{role: app.RoleSpectator}
			} else {
				pending = pendingAccess{role: matchState.Roles[uid], fingerprint: matchState.JoinFps[uid]}
			}
		}
		delete(matchState.Pending, uid)

		// A scorer whose token predates a password change is admitted as
		// spectator only.
		if pending.role == app.RoleScorer && pending.fingerprint != currentFp {
			logger.Info("MatchJoin: Stale scorer token for %s, demoting to spectator.", uid)
			pending.role = app.RoleSpectator
		}

		matchState.Roles[uid] = pending.role
		matchState.JoinFps[uid] = pending.fingerprint

		mh.sendState(matchState, dispatcher, logger, []runtime.Presence{p})
	}

	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

// MatchLeave drops departed presences and terminates the match once
// nobody is connected; the shared record outlives the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		uid := p.GetUserId()
		delete(matchState.Presences, uid)
		delete(matchState.Roles, uid)
		delete(matchState.JoinFps, uid)
		delete(matchState.ScanGates, uid)
	}

	if len(matchState.Presences) == 0 {
		logger.Info("MatchLeave: No clients left on court %q, terminating.", matchState.CourtKey)
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

// MatchLoop processes stimuli in arrival order, fires elapsed holds, and
// polls the shared record for writes from other clients.
func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpScorePoint:
			mh.handleScorePoint(ctx, matchState, dispatcher, logger, msg)
		case OpScanCode:
			mh.handleScanCode(ctx, matchState, dispatcher, logger, msg)
		case OpHoldPress:
			mh.handleHoldPress(matchState, logger, msg)
		case OpHoldRelease:
			mh.handleHoldRelease(matchState, logger, msg)
		case OpRenameTeam:
			mh.handleRenameTeam(ctx, matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	for _, hold := range matchState.Holds.Due(tick) {
		mh.applyAction(ctx, matchState, dispatcher, logger, hold.UserID, hold.Action)
	}

	mh.pollStore(ctx, matchState, dispatcher, logger)

	return matchState
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: Court match shut down.")
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}

/* ---- message handlers ---- */

type scorePointRequest struct {
	Side domain.Side `json:"side"`
}

func (mh *matchHandler) handleScorePoint(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	uid := msg.GetUserId()
	if !mh.isScorer(state, uid) {
		logger.Warn("handleScorePoint: %s is not a scorer.", uid)
		return
	}

	var req scorePointRequest
	if err := json.Unmarshal(msg.GetData(), &req); err != nil || !req.Side.Valid() {
		logger.Warn("handleScorePoint: Invalid payload from %s: %v", uid, err)
		return
	}

	mh.applyAction(ctx, state, dispatcher, logger, uid, app.Action{Kind: app.ActionPoint, Side: req.Side})
}

type scanCodeRequest struct {
	Code string `json:"code"`
}

func (mh *matchHandler) handleScanCode(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	uid := msg.GetUserId()
	if !mh.isScorer(state, uid) {
		logger.Warn("handleScanCode: %s is not a scorer.", uid)
		return
	}

	var req scanCodeRequest
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		logger.Warn("handleScanCode: Invalid payload from %s: %v", uid, err)
		return
	}

	action, ok := app.ParseScanCode(req.Code)
	if !ok {
		logger.Warn("handleScanCode: Unknown code %q from %s, ignoring.", req.Code, uid)
		return
	}

	gate := state.ScanGates[uid]
	if gate == nil {
		gate = &app.ScanGate{}
		state.ScanGates[uid] = gate
	}
	if !gate.TryAcquire(state.Tick, state.cooldownTicks) {
		logger.Debug("handleScanCode: Gate locked for %s, dropping %q.", uid, req.Code)
		return
	}

	// Scanned resets only prompt; the destructive action still needs a
	// hold-to-confirm from the client.
	if action.Kind == app.ActionReset {
		mh.broadcastEvent(state, dispatcher, logger, app.Event{
			Kind:       app.EventResetPrompted,
			Payload:    app.ResetPromptedPayload{},
			Recipients: []string{uid},
		})
	} else {
		mh.applyAction(ctx, state, dispatcher, logger, uid, action)
	}

	mh.broadcastEvent(state, dispatcher, logger, app.Event{
		Kind:       app.EventCooldownStarted,
		Payload:    app.CooldownStartedPayload{RemainingMS: app.CooldownMS},
		Recipients: []string{uid},
	})
}

type holdRequest struct {
	Action string `json:"action"`
	Full   bool   `json:"full"`
}

// parseHoldAction maps a hold request to its action variant.
func parseHoldAction(req holdRequest) (app.Action, bool) {
	switch app.ActionKind(req.Action) {
	case app.ActionUndo:
		return app.Action{Kind: app.ActionUndo}, true
	case app.ActionReset:
		return app.Action{Kind: app.ActionReset, Full: req.Full}, true
	case app.ActionBack:
		return app.Action{Kind: app.ActionBack}, true
	case app.ActionMute:
		return app.Action{Kind: app.ActionMute}, true
	default:
		return app.Action{}, false
	}
}

func (mh *matchHandler) handleHoldPress(state *MatchState, logger runtime.Logger, msg runtime.MatchData) {
	uid := msg.GetUserId()

	var req holdRequest
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		logger.Warn("handleHoldPress: Invalid payload from %s: %v", uid, err)
		return
	}

	action, ok := parseHoldAction(req)
	if !ok {
		logger.Warn("handleHoldPress: Unknown action %q from %s.", req.Action, uid)
		return
	}

	// Undo and reset mutate shared state; back and mute are
	// presentation-only and open to spectators.
	if (action.Kind == app.ActionUndo || action.Kind == app.ActionReset) && !mh.isScorer(state, uid) {
		logger.Warn("handleHoldPress: %s is not a scorer.", uid)
		return
	}

	state.Holds.Press(uid, action, state.Tick, state.holdTicks[action.Kind])
}

func (mh *matchHandler) handleHoldRelease(state *MatchState, logger runtime.Logger, msg runtime.MatchData) {
	uid := msg.GetUserId()

	var req holdRequest
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		logger.Warn("handleHoldRelease: Invalid payload from %s: %v", uid, err)
		return
	}

	state.Holds.Release(uid, app.ActionKind(req.Action))
}

type renameTeamRequest struct {
	Side domain.Side `json:"side"`
	Name string      `json:"name"`
}

func (mh *matchHandler) handleRenameTeam(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	uid := msg.GetUserId()
	if !mh.isScorer(state, uid) {
		logger.Warn("handleRenameTeam: %s is not a scorer.", uid)
		return
	}

	var req renameTeamRequest
	if err := json.Unmarshal(msg.GetData(), &req); err != nil || !req.Side.Valid() {
		logger.Warn("handleRenameTeam: Invalid payload from %s: %v", uid, err)
		return
	}

	events := mh.svc.RenameTeam(&state.Record.TeamNames, req.Side, req.Name)
	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}
	mh.persist(ctx, state, logger)
	mh.sendState(state, dispatcher, logger, nil)
}

/* ---- action dispatch ---- */

// applyAction runs an engine operation and propagates its effects:
// events out to clients, mutations into the shared record.
func (mh *matchHandler) applyAction(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, uid string, action app.Action) {
	switch action.Kind {
	case app.ActionPoint:
		events := mh.svc.AddPoint(state.Session, action.Side)
		for _, ev := range events {
			mh.broadcastEvent(state, dispatcher, logger, ev)
		}
		mh.persist(ctx, state, logger)
		mh.sendState(state, dispatcher, logger, nil)

	case app.ActionUndo:
		events, mutated := mh.svc.UndoLastPoint(state.Session)
		for _, ev := range events {
			mh.broadcastEvent(state, dispatcher, logger, ev)
		}
		// The flash fires regardless; persistence and re-broadcast only
		// follow an actual state change.
		if mutated {
			mh.persist(ctx, state, logger)
			mh.sendState(state, dispatcher, logger, nil)
		}

	case app.ActionReset:
		events, newPassword := mh.svc.ResetScore(state.Session, &state.Record.TeamNames, action.Full)
		if newPassword != "" {
			state.Record.Password = newPassword
			mh.rotateScorers(state, dispatcher, logger, uid)
		}
		for _, ev := range events {
			mh.broadcastEvent(state, dispatcher, logger, ev)
		}
		mh.persist(ctx, state, logger)
		mh.sendState(state, dispatcher, logger, nil)

	case app.ActionBack:
		mh.broadcastEvent(state, dispatcher, logger, app.Event{
			Kind:       app.EventBackConfirmed,
			Payload:    app.BackConfirmedPayload{},
			Recipients: []string{uid},
		})

	case app.ActionMute:
		mh.broadcastEvent(state, dispatcher, logger, app.Event{
			Kind:       app.EventMuteToggled,
			Payload:    app.MuteToggledPayload{},
			Recipients: []string{uid},
		})
	}
}

// rotateScorers re-keys the initiating scorer to the new password
// fingerprint and demotes everyone else holding scorer capability.
func (mh *matchHandler) rotateScorers(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, initiator string) {
	fp := app.PasswordFingerprint(state.Record.Password)
	state.JoinFps[initiator] = fp

	for uid, role := range state.Roles {
		if uid == initiator || role != app.RoleScorer {
			continue
		}
		mh.demote(state, dispatcher, logger, uid, "password_changed")
	}
}

func (mh *matchHandler) demote(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, uid, reason string) {
	state.Roles[uid] = app.RoleSpectator
	logger.Info("demote: %s is now a spectator (%s).", uid, reason)
	mh.broadcastEvent(state, dispatcher, logger, app.Event{
		Kind:       app.EventSpectatorMode,
		Payload:    app.SpectatorModePayload{Reason: reason},
		Recipients: []string{uid},
	})
}

func (mh *matchHandler) isScorer(state *MatchState, uid string) bool {
	return state.Roles[uid] == app.RoleScorer
}

/* ---- persistence and remote-change propagation ---- */

// persist pushes the session into the shared record. Fire-and-forget:
// a failed write is logged and the next successful push reconverges.
func (mh *matchHandler) persist(ctx context.Context, state *MatchState, logger runtime.Logger) {
	state.Record.Score = state.Session.Score
	state.Record.History = state.Session.History

	version, err := mh.store.Save(ctx, state.Record)
	if err != nil {
		logger.Warn("persist: Failed to save court %q: %v", state.CourtKey, err)
		return
	}
	state.StoreVersion = version
}

// pollStore checks the shared record for writes made outside this match
// and adopts them wholesale: the last writer wins, the store is truth.
func (mh *matchHandler) pollStore(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Tick < state.nextPollTick {
		return
	}
	state.nextPollTick = state.Tick + state.pollEveryTicks

	rec, version, err := mh.store.Load(ctx, state.CourtKey)
	if err != nil {
		logger.Warn("pollStore: Failed to load court %q: %v", state.CourtKey, err)
		return
	}
	if version == state.StoreVersion {
		return
	}

	logger.Info("pollStore: Adopting remote version %s for court %q.", version, state.CourtKey)

	oldFp := app.PasswordFingerprint(state.Record.Password)
	state.Record = rec
	state.Session.Adopt(rec.Score, rec.History)
	state.StoreVersion = version

	mh.sendState(state, dispatcher, logger, nil)

	// A remotely changed password demotes every scorer admitted under
	// the old one.
	newFp := app.PasswordFingerprint(rec.Password)
	if newFp == oldFp {
		return
	}
	for uid, role := range state.Roles {
		if role == app.RoleScorer && state.JoinFps[uid] != newFp {
			mh.demote(state, dispatcher, logger, uid, "password_changed")
		}
	}
}

/* ---- dispatch helpers ---- */

// stateSnapshot is the wire form of the shared record. The password
// stays server-side; everything else is replaced wholesale on clients.
type stateSnapshot struct {
	Court     string           `json:"court"`
	TeamNames domain.TeamNames `json:"team_names"`
	Score     domain.Score     `json:"score"`
	History   []domain.Score   `json:"history"`
	CreatedAt time.Time        `json:"created_at"`
}

// sendState delivers the full snapshot; nil recipients broadcasts.
func (mh *matchHandler) sendState(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, recipients []runtime.Presence) {
	snapshot := stateSnapshot{
		Court:     state.Record.Name,
		TeamNames: state.Record.TeamNames,
		Score:     state.Session.Score,
		History:   state.Session.History,
		CreatedAt: state.Record.CreatedAt,
	}

	bytes, err := json.Marshal(snapshot)
	if err != nil {
		logger.Error("sendState: Failed to marshal snapshot: %v", err)
		return
	}
	if err := dispatcher.BroadcastMessage(OpScoreState, bytes, recipients, nil, true); err != nil {
		logger.Error("sendState: Broadcast failed: %v", err)
	}
}

// broadcastEvent converts an app event to its opcode and dispatches it.
func (mh *matchHandler) broadcastEvent(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	var opCode int64

	switch ev.Kind {
	case app.EventPointScored:
		opCode = OpPointScored
	case app.EventGameWon:
		opCode = OpGameWon
	case app.EventSetWon:
		opCode = OpSetWon
	case app.EventUndoFlash:
		opCode = OpUndoFlash
	case app.EventUndoApplied:
		opCode = OpUndoApplied
	case app.EventScoreReset:
		opCode = OpScoreReset
	case app.EventTeamRenamed:
		opCode = OpTeamRenamed
	case app.EventCooldownStarted:
		opCode = OpCooldown
	case app.EventResetPrompted:
		opCode = OpResetPrompt
	case app.EventMuteToggled:
		opCode = OpMuteToggled
	case app.EventBackConfirmed:
		opCode = OpBackConfirmed
	case app.EventSpectatorMode:
		opCode = OpSpectatorMode
	default:
		logger.Warn("broadcastEvent: Unknown event kind: %v", ev.Kind)
		return
	}

	bytes, err := json.Marshal(ev.Payload)
	if err != nil {
		logger.Error("broadcastEvent: Failed to marshal %v: %v", ev.Kind, err)
		return
	}

	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}
		// Targeted events with no connected recipient must not fall back
		// to a broadcast.
		if len(recipients) == 0 {
			return
		}
	}

	if err := dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true); err != nil {
		logger.Error("broadcastEvent: Broadcast failed: %v", err)
	}
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	labelBytes, err := json.Marshal(Label{Court: state.CourtKey, Clients: len(state.Presences)})
	if err != nil {
		logger.Error("updateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(string(labelBytes)); err != nil {
		logger.Error("updateLabel: Failed to update: %v", err)
	}
}
