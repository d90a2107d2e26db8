package nakama

import (
	"context"
	"database/sql"
	"fmt"

	"punto/internal/app"

	"github.com/heroiclabs/nakama-common/runtime"
)

// InitModule wires RPCs, hooks and the court match handler for the
// Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)

	adminPassword := env[EnvAdminPassword]
	if adminPassword == "" {
		return fmt.Errorf("missing runtime env %s", EnvAdminPassword)
	}
	tokenSecret := env[EnvAccessTokenSecret]
	if tokenSecret == "" {
		return fmt.Errorf("missing runtime env %s", EnvAccessTokenSecret)
	}

	access := app.NewAccessService(tokenSecret, "punto")

	if err := RegisterRPCs(initializer, access, adminPassword); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNamePunto, NewMatch(access)); err != nil {
		return err
	}

	if err := initializer.RegisterAfterAuthenticateDevice(AfterAuthenticateDevice); err != nil {
		return err
	}

	logger.Info("Punto Go module loaded.")
	return nil
}
