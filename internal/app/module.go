package app

import (
	"time"

	"github.com/riahunter/backend/internal/app/api/server"
	"github.com/riahunter/backend/internal/app/service/billingevent"
	"github.com/riahunter/backend/internal/app/service/directory"
	"github.com/riahunter/backend/internal/app/service/ledger"
	"github.com/riahunter/backend/internal/app/service/statistics"
	"github.com/riahunter/backend/internal/app/service/subscription"
	"github.com/riahunter/backend/internal/app/service/support"
	"github.com/riahunter/backend/internal/app/service/webhook"
	"github.com/riahunter/backend/internal/platform/db"
	"github.com/riahunter/backend/internal/platform/redisconn"
	"github.com/riahunter/backend/internal/ratelimit"
	"github.com/riahunter/backend/pkg/config"
	"github.com/riahunter/backend/pkg/logger"

	"go.uber.org/fx"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	redisconn.Module,
	ratelimit.Module,
	server.Module,
	ledger.Module,
	subscription.Module,
	billingevent.Module,
	webhook.Module,
	support.Module,
	directory.Module,
	statistics.Module,
)
