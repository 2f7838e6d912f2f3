package interactive

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/leakscout/leakscout/internal/app/triage"
	"github.com/leakscout/leakscout/internal/app/ui"
	msges "github.com/leakscout/leakscout/internal/messages"
	appver "github.com/leakscout/leakscout/internal/version"
	"github.com/spf13/cobra"
)

func getPrompt() string {
	return fmt.Sprintf("%sleakscout %s>%s ", ui.ColorGreen, appver.Value, ui.ColorReset)
}

// RunInteractiveMode runs a line-based command loop when no target was given
// on the command line.
func RunInteractiveMode(cmdObj *cobra.Command) {
	ui.PrintGradientAsciiArt()

	helpText := cmdObj.Long
	helpText = strings.Replace(helpText, ui.AsciiArt, "", 1)
	fmt.Println(helpText)

	fmt.Println()
	fmt.Printf("%s%s%s\n", ui.ColorGray, msges.GetUIMessage("InteractiveWelcome"), ui.ColorReset)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(getPrompt())
		if !scanner.Scan() {
			fmt.Println()
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "exit", "quit":
			fmt.Printf("%s%s%s\n", ui.ColorGray, msges.GetUIMessage("InteractiveExit"), ui.ColorReset)
			return
		case "help":
			printHelp()
		case "triage":
			runTriageCommand(fields[1:])
		default:
			fmt.Printf("%s%s%s\n", ui.ColorRed, msges.GetUIMessage("InteractiveErrUnknown", fields[0]), ui.ColorReset)
		}
	}
}

func printHelp() {
	fmt.Printf("%s%s%s\n", ui.ColorWhite, msges.GetUIMessage("InteractiveHelp"), ui.ColorReset)
	for _, id := range []string{"InteractiveHelpTriage", "InteractiveHelpHelp", "InteractiveHelpExit"} {
		fmt.Printf("%s%s%s\n", ui.ColorGray, msges.GetUIMessage(id), ui.ColorReset)
	}
}

func runTriageCommand(args []string) {
	var target string
	var opts triage.Options

	i := 0
	for i < len(args) {
		arg := args[i]
		switch {
		case arg == "--json":
			opts.JSONOutput = true
		case arg == "--html":
			opts.HTMLOutput = true
		case arg == "--verbose":
			opts.Verbose = true
		case arg == "--limit":
			if i+1 < len(args) {
				if n, err := strconv.Atoi(args[i+1]); err == nil {
					opts.MaxRecords = n
				}
				i++
			}
		case arg == "--analyze":
			if i+1 < len(args) {
				if n, err := strconv.Atoi(args[i+1]); err == nil {
					opts.AnalyzeLimit = n
				}
				i++
			}
		case strings.HasPrefix(arg, "--"):
			fmt.Printf("%s%s%s\n", ui.ColorRed, msges.GetUIMessage("InteractiveErrFlag", arg), ui.ColorReset)
			return
		default:
			target = arg
		}
		i++
	}

	if target == "" {
		fmt.Printf("%s%s%s\n", ui.ColorRed, msges.GetUIMessage("InteractiveErrTarget"), ui.ColorReset)
		return
	}

	if err := triage.RunTriage(target, opts); err != nil {
		fmt.Printf("%s%s%s\n", ui.ColorRed, msges.GetUIMessage("InteractiveRunFailed", err), ui.ColorReset)
	}
}
