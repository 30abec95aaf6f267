package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"fluxwell/client"
	"fluxwell/config"
	"fluxwell/orchestrator"
	"fluxwell/utils"

	"github.com/spf13/cobra"
)

const memoryModeCache = "memory"

const sessionHelp = `Commands:
  show                 Show the week, the AI candidate and pending conflicts
  generate             Ask the AI for a new candidate plan
  save [--force]       Commit the candidate (--force skips the conflict check)
  confirm              Replace the conflicting days and commit
  cancel               Keep the current plan and the candidate
  ai on|off            Turn AI planning on or off
  alt <day> <idx>      Suggest alternatives for an exercise of the candidate
  pick <n>             Use alternative n
  anchor <weekday>     Set the weekday that starts a new AI cycle
  reload               Fetch the plan again
  quit                 Leave the session
`

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Plan the week interactively with the AI",
	Long: `Open an interactive session that loads the current week, generates AI
candidates, checks them against committed days and saves them on confirmation.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		cfg := config.AppConfig.Client
		c := newClient(cfg)
		orch := orchestrator.New(orchestrator.Options{
			Store:     c,
			Generator: c,
			Checker:   c,
			ModeCache: newModeCache(cfg),
			Notifier:  orchestrator.NotifierFunc(printNotification),
		})
		return runSession(ctx, orch, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

// newModeCache keeps the AI mode in a file under the user cache dir unless
// mode_cache_path is "memory".
func newModeCache(cfg config.ClientConfig) orchestrator.ModeCache {
	path := cfg.ModeCachePath
	if path == memoryModeCache {
		return orchestrator.NewMemoryModeCache()
	}
	if path == "" {
		p, err := orchestrator.DefaultModeCachePath()
		if err != nil {
			log.Printf("WARN: [Session] %v, keeping the AI mode in memory.", err)
			return orchestrator.NewMemoryModeCache()
		}
		path = p
	}
	return orchestrator.NewFileModeCache(path, cfg.UserID)
}

func runSession(ctx context.Context, orch *orchestrator.Orchestrator, in io.Reader, out io.Writer) error {
	// Load failures are reported through notifications; the session stays usable.
	_ = orch.Mount(ctx)
	defer orch.Unmount()

	writeView(out, orch.Snapshot())
	fmt.Fprintln(out, `Type "help" for commands.`)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "fluxwell> ")
		if !scanner.Scan() {
			break
		}
		quit, err := executeLine(ctx, orch, scanner.Text(), out)
		if err != nil {
			reportCommandError(err)
		}
		if quit || ctx.Err() != nil {
			return nil
		}
	}
	return scanner.Err()
}

// commandErrorMessage formats a failed command and reports whether retrying may help.
func commandErrorMessage(err error) (string, bool) {
	if client.IsTransient(err) {
		return fmt.Sprintf("%v (the backend is busy or unreachable, try again)", err), true
	}
	return err.Error(), false
}

func reportCommandError(err error) {
	msg, transient := commandErrorMessage(err)
	if transient {
		PrintWarning(msg)
		return
	}
	PrintError(msg)
}

// executeLine runs one session command. It reports whether the session should end.
func executeLine(ctx context.Context, orch *orchestrator.Orchestrator, line string, out io.Writer) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	switch strings.ToLower(fields[0]) {
	case "help", "?":
		fmt.Fprint(out, sessionHelp)
		return false, nil

	case "show":

	case "generate":
		if err := orch.Generate(ctx); err != nil {
			return false, err
		}

	case "save":
		force := len(fields) > 1 && fields[1] == "--force"
		if _, err := orch.Save(ctx, orchestrator.SaveOptions{ForceReplace: force}); err != nil {
			return false, err
		}

	case "confirm":
		if _, err := orch.Confirm(ctx); err != nil {
			return false, err
		}

	case "cancel":
		if err := orch.Cancel(); err != nil {
			return false, err
		}

	case "ai":
		if len(fields) != 2 {
			return false, fmt.Errorf("usage: ai on|off")
		}
		var enabled bool
		switch strings.ToLower(fields[1]) {
		case "on":
			enabled = true
		case "off":
			enabled = false
		default:
			return false, fmt.Errorf("usage: ai on|off")
		}
		if err := orch.SetAIEnabled(ctx, enabled); err != nil {
			return false, err
		}

	case "alt":
		if len(fields) != 3 {
			return false, fmt.Errorf("usage: alt <day> <idx>")
		}
		day, err := strconv.Atoi(fields[1])
		if err != nil {
			return false, fmt.Errorf("invalid day index %q", fields[1])
		}
		idx, err := strconv.Atoi(fields[2])
		if err != nil {
			return false, fmt.Errorf("invalid exercise index %q", fields[2])
		}
		if _, err := orch.RequestAlternatives(ctx, day, idx); err != nil {
			return false, err
		}

	case "pick":
		if len(fields) != 2 {
			return false, fmt.Errorf("usage: pick <n>")
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return false, fmt.Errorf("invalid alternative %q", fields[1])
		}
		if err := orch.PickAlternative(n); err != nil {
			return false, err
		}

	case "anchor":
		if len(fields) != 2 {
			return false, fmt.Errorf("usage: anchor <weekday>")
		}
		weekday, err := parseWeekday(fields[1])
		if err != nil {
			return false, err
		}
		if err := orch.SetAnchorWeekday(ctx, weekday); err != nil {
			return false, err
		}

	case "reload":
		if err := orch.Reload(ctx); err != nil {
			return false, err
		}

	case "quit", "exit":
		return true, nil

	default:
		return false, fmt.Errorf("unknown command %q (try \"help\")", fields[0])
	}

	writeView(out, orch.Snapshot())
	return false, nil
}

// parseWeekday accepts 0-6 (0 = Monday) or a weekday name of at least three letters.
func parseWeekday(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if !utils.IsValidWeekday(n) {
			return 0, fmt.Errorf("weekday %d out of range 0-6", n)
		}
		return n, nil
	}
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) >= 3 {
		for i, name := range utils.WeekdayNames {
			if strings.HasPrefix(strings.ToLower(name), s) {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}
