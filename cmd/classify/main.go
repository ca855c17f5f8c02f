package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"murmur/agent/internal/config"
	"murmur/agent/internal/interrupt"
)

var (
	useClassifier = flag.Bool("classifier", false, "enable the linguistic classifier")
	confidence    = flag.Float64("confidence", 1.0, "confidence score applied to typed utterances")
	debug         = flag.Bool("debug", false, "verbose engine logging")
)

// Interactive harness: type an utterance, see the suppression decision.
func main() {
	flag.Parse()
	_ = godotenv.Load()

	cfg := config.Load()
	ec := cfg.EngineConfig()
	if *useClassifier {
		ec.UseClassifier = true
	}
	if *debug {
		ec.Debug = true
	}
	eng := interrupt.NewEngine(ec)
	agentActive := true

	fmt.Println("interactive interruption filter")
	fmt.Println("commands: toggle | metrics | reset | quit")
	fmt.Printf("agent speaking: %v\n\n", agentActive)

	sc := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("utterance: ")
		if !sc.Scan() {
			break
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		switch strings.ToLower(line) {
		case "quit", "exit":
			printSummary(eng)
			return
		case "toggle":
			agentActive = !agentActive
			fmt.Printf("agent speaking: %v\n\n", agentActive)
			continue
		case "metrics":
			printSummary(eng)
			continue
		case "reset":
			eng.ResetMetrics()
			fmt.Println("metrics reset")
			continue
		}

		if !agentActive {
			fmt.Println("-> processed (agent not speaking)")
			continue
		}
		if eng.Evaluate(line, *confidence) {
			fmt.Println("-> suppressed (no interruption)")
		} else {
			fmt.Println("-> allowed (agent interrupted)")
		}
	}
	printSummary(eng)
}

func printSummary(eng *interrupt.Engine) {
	m := eng.Metrics()
	fmt.Printf("suppressed=%d allowed=%d low_confidence=%d classifier=%d total=%d\n",
		m.SuppressedInterrupts, m.AllowedInterrupts, m.LowConfidenceBlocks, m.MLPredictions, m.TotalProcessed)
}
