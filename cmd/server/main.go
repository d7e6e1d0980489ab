// Command server wires the game hub to a websocket transport and
// runs until interrupted.
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mhurst/piznac-games-sub001/internal/aidriver"
	"github.com/mhurst/piznac-games-sub001/internal/challenge"
	"github.com/mhurst/piznac-games-sub001/internal/config"
	"github.com/mhurst/piznac-games-sub001/internal/hub"
	"github.com/mhurst/piznac-games-sub001/internal/room"
	"github.com/mhurst/piznac-games-sub001/internal/transport"
	"github.com/mhurst/piznac-games-sub001/internal/user"

	_ "github.com/mhurst/piznac-games-sub001/internal/gameengine/battleship"
	_ "github.com/mhurst/piznac-games-sub001/internal/gameengine/blackjack"
	_ "github.com/mhurst/piznac-games-sub001/internal/gameengine/checkers"
	_ "github.com/mhurst/piznac-games-sub001/internal/gameengine/connectfour"
	_ "github.com/mhurst/piznac-games-sub001/internal/gameengine/farkle"
	_ "github.com/mhurst/piznac-games-sub001/internal/gameengine/mancala"
	_ "github.com/mhurst/piznac-games-sub001/internal/gameengine/poker"
	_ "github.com/mhurst/piznac-games-sub001/internal/gameengine/tictactoe"
	_ "github.com/mhurst/piznac-games-sub001/internal/gameengine/war"
	_ "github.com/mhurst/piznac-games-sub001/internal/gameengine/yahtzee"
)

func main() {
	cfg := config.Load()

	users := user.NewRegistry()
	rooms := room.NewManager()
	challenges := challenge.NewService(cfg.ChallengeTTL)
	bots := aidriver.NewSchedulerWithDelays(cfg.BotMinDelay, cfg.BotMaxDelay)

	h := hub.NewWithActionTimeout(users, rooms, challenges, bots, cfg.ActionTimeout)
	srv := transport.NewServer(cfg.AllowedOrigins, h)

	go func() {
		log.Printf("game server starting on :%s", cfg.Port)
		if err := srv.Run(":" + cfg.Port); err != nil {
			log.Fatalf("server exited: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("shutting down...")
}
