package handlers

import (
	"log"

	"github.com/HoneySecret20/aurex-backend/config"
	"github.com/HoneySecret20/aurex-backend/ledger"
	"github.com/HoneySecret20/aurex-backend/paystack"
)

var (
	appConfig   *config.Config
	coordinator *ledger.Coordinator
	gate        *ledger.WithdrawalGate
	tasks       *ledger.DailyTasks
	gateway     *paystack.Client
)

// Init передаёт обработчикам собранные в main зависимости
func Init(cfg *config.Config, co *ledger.Coordinator, g *ledger.WithdrawalGate, dt *ledger.DailyTasks, pc *paystack.Client) {
	appConfig = cfg
	coordinator = co
	gate = g
	tasks = dt
	gateway = pc
	log.Println("✅ Handlers initialized")
}
