package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/kernel/devtools-installer/internal/fetch"
	"github.com/kernel/devtools-installer/internal/profile"
	"github.com/kernel/devtools-installer/internal/proxy"
	"github.com/kernel/devtools-installer/pkg/util"
)

const (
	statusOperational = "operational"
	statusDegraded    = "degraded"
	statusUnavailable = "unavailable"

	statusProbeTimeout = 10 * time.Second
)

type statusCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Detail string `json:"detail"`
}

type statusReport struct {
	Status string        `json:"status"`
	Checks []statusCheck `json:"checks"`
}

// StatusCmd checks that installs can work: the cache is writable, the
// launch profile points at existing directories and the update service
// answers.
type StatusCmd struct {
	root      string
	updateURL string
	profile   LaunchProfile
	proxy     *fetch.Proxy
	// proxyErr is why proxy detection failed, if it did.
	proxyErr error
}

// StatusInput holds input for the status command.
type StatusInput struct {
	Output string
}

// Status runs every check and prints the report.
func (c StatusCmd) Status(ctx context.Context, in StatusInput) error {
	if in.Output != "" && in.Output != "json" {
		return fmt.Errorf("unsupported --output value: use 'json'")
	}

	report := statusReport{Checks: []statusCheck{
		c.checkCache(),
		c.checkProfile(ctx),
		c.checkUpdateService(ctx),
	}}
	report.Status = statusOperational
	for _, check := range report.Checks {
		if statusRank[check.Status] > statusRank[report.Status] {
			report.Status = check.Status
		}
	}

	if in.Output == "json" {
		return util.PrintPrettyJSON(report)
	}
	printStatus(report)
	return nil
}

var statusRank = map[string]int{
	statusOperational: 0,
	statusDegraded:    1,
	statusUnavailable: 2,
}

func (c StatusCmd) checkCache() statusCheck {
	check := statusCheck{Name: "Cache", Status: statusOperational, Detail: c.root}
	f, err := os.CreateTemp(c.root, ".probe-*")
	if err != nil {
		check.Status = statusUnavailable
		check.Detail = fmt.Sprintf("%s is not writable: %v", c.root, err)
		return check
	}
	f.Close()
	_ = os.Remove(f.Name())
	return check
}

func (c StatusCmd) checkProfile(ctx context.Context) statusCheck {
	check := statusCheck{Name: "Launch profile", Status: statusOperational}
	exts, err := c.profile.GetAllExtensions(ctx)
	if err != nil {
		check.Status = statusUnavailable
		check.Detail = err.Error()
		return check
	}

	missing := 0
	for _, e := range exts {
		if !util.IsDir(e.Path) {
			missing++
		}
	}
	check.Detail = fmt.Sprintf("%d extension(s) loaded", len(exts))
	if missing > 0 {
		check.Status = statusDegraded
		check.Detail += fmt.Sprintf(", %d missing from the cache (reinstall with --force)", missing)
	}
	return check
}

func (c StatusCmd) checkUpdateService(ctx context.Context) statusCheck {
	check := statusCheck{Name: "Update service", Status: statusOperational}
	if c.proxyErr != nil {
		check.Status = statusUnavailable
		check.Detail = fmt.Sprintf("proxy detection failed: %v", c.proxyErr)
		return check
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.updateURL, nil)
	if err != nil {
		check.Status = statusUnavailable
		check.Detail = err.Error()
		return check
	}
	resp, err := fetch.NewClient(c.proxy, statusProbeTimeout).Do(req)
	if err != nil {
		check.Status = statusUnavailable
		check.Detail = fmt.Sprintf("request failed via %s: %v", c.proxy.String(), err)
		return check
	}
	resp.Body.Close()

	// Any answer means downloads can reach the service.
	check.Detail = fmt.Sprintf("%s via %s", resp.Status, c.proxy.String())
	return check
}

// useProxy applies the proxy setting: empty, "auto" or a proxy URL. Only an
// invalid URL is an error; a failed detection is reported by the update
// service check.
func (c *StatusCmd) useProxy(ctx context.Context, setting string, r proxy.Resolver) error {
	switch setting {
	case "":
		return nil
	case "auto":
		p, err := proxy.Resolve(ctx, r)
		switch {
		case errors.Is(err, proxy.ErrDirect):
			// Nothing detected; the check goes direct.
		case err != nil:
			c.proxyErr = err
		default:
			c.proxy = p
		}
		return nil
	default:
		p, err := fetch.ParseProxy(setting)
		if err != nil {
			return err
		}
		c.proxy = p
		return nil
	}
}

var statusDisplay = map[string]struct {
	label string
	rgb   pterm.RGB
}{
	statusOperational: {label: "OK", rgb: pterm.NewRGB(31, 163, 130)},
	statusDegraded:    {label: "Degraded", rgb: pterm.NewRGB(245, 158, 11)},
	statusUnavailable: {label: "Unavailable", rgb: pterm.NewRGB(239, 68, 68)},
}

func getStatusDisplay(status string) (string, pterm.RGB) {
	if d, ok := statusDisplay[status]; ok {
		return d.label, d.rgb
	}
	return "Unknown", pterm.NewRGB(128, 128, 128)
}

func coloredDot(rgb pterm.RGB) string {
	return rgb.Sprint("●")
}

func printStatus(report statusReport) {
	label, rgb := getStatusDisplay(report.Status)
	pterm.Println()
	pterm.Println("  " + fmt.Sprintf("Status: %s", rgb.Sprint(label)))
	pterm.Println()
	for _, check := range report.Checks {
		checkLabel, checkColor := getStatusDisplay(check.Status)
		pterm.Printf("    %s %-16s %-12s %s\n", coloredDot(checkColor), check.Name, checkLabel, check.Detail)
	}
	pterm.Println()
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the cache, launch profile and update service",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringP("output", "o", "", "Output format: json")
}

func runStatus(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")

	p, err := profile.Open(e.root)
	if err != nil {
		return err
	}

	c := StatusCmd{root: e.root, updateURL: e.cfg.UpdateURL, profile: p}
	if err := c.useProxy(cmd.Context(), e.cfg.Proxy, proxy.EnvResolver{}); err != nil {
		return err
	}
	return c.Status(cmd.Context(), StatusInput{Output: output})
}
