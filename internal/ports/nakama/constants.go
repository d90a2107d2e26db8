package nakama

const (
	// RpcCreateCourt registers a new court record (admin gated).
	RpcCreateCourt = "create_court"
	// RpcEnterCourt exchanges the court password for a scorer token.
	RpcEnterCourt = "enter_court"
	// RpcSpectateCourt issues a read-only token for a court.
	RpcSpectateCourt = "spectate_court"

	// MatchNamePunto is the authoritative match handler name registered
	// with Nakama.
	MatchNamePunto = "punto_court"
)

// Runtime environment variable names.
const (
	EnvAdminPassword     = "punto_admin_password"
	EnvAccessTokenSecret = "punto_access_token_secret"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpScorePoint  int64 = 1 // manual tap, never cooldown-gated
	OpScanCode    int64 = 2 // scanned tag code, cooldown-gated
	OpHoldPress   int64 = 3
	OpHoldRelease int64 = 4
	OpRenameTeam  int64 = 5

	// Server -> Client events
	OpScoreState    int64 = 101 // full record snapshot; replaces client state wholesale
	OpPointScored   int64 = 102
	OpGameWon       int64 = 103
	OpSetWon        int64 = 104
	OpUndoFlash     int64 = 105
	OpUndoApplied   int64 = 106
	OpScoreReset    int64 = 107
	OpTeamRenamed   int64 = 108
	OpCooldown      int64 = 109
	OpResetPrompt   int64 = 110
	OpMuteToggled   int64 = 111
	OpBackConfirmed int64 = 112
	OpSpectatorMode int64 = 113
)
