package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pictoseq/engine/internal/dispatcher"
	"github.com/pictoseq/engine/pkg/core"
)

func printUsage() {
	fmt.Println("usage: engine <command> [args]")
	fmt.Println()
	fmt.Println("commands:")
	fmt.Println("  classify <beat.json>                    name the letter a beat writes")
	fmt.Println("  generate <seq.json> <beats> <variant>   extend a sequence into a CAP")
	fmt.Println("  verify   <seq.json>                     check CAP properties of a sequence")
	fmt.Println("  list                                    list stored sequences")
	fmt.Println("  demo     <seq.json>                     run the full pipeline on a sequence")
}

func runVerb(verb string, args []string) error {
	switch verb {
	case "classify":
		if len(args) < 1 {
			return fmt.Errorf("classify requires a beat file")
		}
		return dispatchFile(":CLASSIFY:BEAT:", args[0], nil)

	case "generate":
		if len(args) < 3 {
			return fmt.Errorf("generate requires a sequence file, a target beat count and a variant")
		}
		return dispatchFile(":GENERATE:CAP:", args[0], args[1:3])

	case "verify":
		if len(args) < 1 {
			return fmt.Errorf("verify requires a sequence file")
		}
		return dispatchFile(":VERIFY:CAP:", args[0], nil)

	case "list":
		return listSequences()

	case "demo":
		if len(args) < 1 {
			return fmt.Errorf("demo requires a sequence file")
		}
		return runDemo(args[0])

	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", verb)
	}
}

// dispatchFile sends the file's content as the first command argument,
// followed by any extra args, and prints the handler's result.
func dispatchFile(command, path string, extra []string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	result, err := dispatch(command, append([]string{string(raw)}, extra...))
	if err != nil {
		return err
	}
	printResult(result)
	return nil
}

func dispatch(command string, args []string) (any, error) {
	return eventDispatcher.Dispatch(dispatcher.Event{
		Command:   command,
		Args:      args,
		Timestamp: time.Now(),
	})
}

func printResult(result any) {
	switch v := result.(type) {
	case string:
		fmt.Println(v)
	default:
		raw, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			fmt.Println(v)
			return
		}
		fmt.Println(string(raw))
	}
}

func listSequences() error {
	metas, err := storageBackend.ListSequences()
	if err != nil {
		return fmt.Errorf("listing sequences: %w", err)
	}
	if len(metas) == 0 {
		fmt.Println("No stored sequences.")
		return nil
	}
	printResult(metas)
	return nil
}

// runDemo pushes one sequence through every engine operation: per-beat
// classification and anchors, CAP verification, CAP generation to twice
// the input length, and a save under a timestamped name.
func runDemo(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	var seq core.Sequence
	if err := json.Unmarshal(raw, &seq); err != nil {
		return fmt.Errorf("decoding sequence: %w", err)
	}
	if len(seq.Beats) == 0 {
		return fmt.Errorf("sequence has no beats")
	}

	demoStart := time.Now()
	Logger.Info("Running demo pipeline", "beats", len(seq.Beats))

	for i, b := range seq.Beats {
		beatJSON, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("encoding beat %d: %w", i, err)
		}

		letter, err := dispatch(":CLASSIFY:BEAT:", []string{string(beatJSON)})
		if err != nil {
			return fmt.Errorf("classifying beat %d: %w", i, err)
		}

		for _, color := range []core.Color{core.ColorBlue, core.ColorRed} {
			anchor, err := dispatch(":RESOLVE:ANCHOR:", []string{string(beatJSON), string(color)})
			if err != nil {
				return fmt.Errorf("resolving %s anchor for beat %d: %w", color, i, err)
			}
			ori, err := dispatch(":END:ORIENTATION:", []string{string(beatJSON), string(color)})
			if err != nil {
				return fmt.Errorf("computing %s end orientation for beat %d: %w", color, i, err)
			}
			fmt.Printf("beat %d %s: letter=%v anchor=%v endOri=%v\n", b.BeatNumber, color, letter, anchor, ori)
		}
	}

	verdict, err := dispatch(":VERIFY:CAP:", []string{string(raw)})
	if err != nil {
		return fmt.Errorf("verifying sequence: %w", err)
	}
	fmt.Println("verification:")
	printResult(verdict)

	target := strconv.Itoa(len(seq.Beats) * 2)
	generated, err := dispatch(":GENERATE:CAP:", []string{string(raw), target, "strict_rotated"})
	if err != nil {
		Logger.Warn("CAP generation failed, sequence may not extend under strict rotation", "error", err)
	} else {
		fmt.Println("generated CAP:")
		printResult(generated)
	}

	name := fmt.Sprintf("demo_%s", SessionStartTime.Format("20060102_150405"))
	id, err := dispatch(":SAVE:SEQUENCE:", []string{string(raw), name})
	if err != nil {
		return fmt.Errorf("saving sequence: %w", err)
	}
	fmt.Printf("saved sequence %v as %q\n", id, name)

	status, _ := monitorService.GetProgramStatus(true, true, true)
	fmt.Println("engine status:")
	for _, block := range status {
		fmt.Println(block)
	}

	Logger.Info("Demo pipeline complete", "duration", time.Since(demoStart))
	return nil
}
