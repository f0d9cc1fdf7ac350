// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"os/exec"

	"go.uber.org/multierr"

	"github.com/hamed0406/syncwatch/internal/config"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	path := "config.yaml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	cfg, err := config.Load(path)
	if err != nil {
		for _, e := range multierr.Errors(err) {
			fmt.Fprintln(os.Stderr, "✖", e)
		}
		fail("config " + path + " is not usable")
	}
	ok(fmt.Sprintf("config %s parsed, %d target(s)", path, len(cfg.Targets)))

	for _, t := range cfg.Targets {
		if _, err := exec.LookPath(t.Command[0]); err != nil {
			warn(fmt.Sprintf("%s: %q not found in PATH; its probes will fail", t.Alias, t.Command[0]))
		} else {
			ok(t.Alias + ": " + t.Command[0] + " found")
		}
	}

	if cfg.Email.Password == "" {
		warn("email password empty; set SMTP_PASSWORD unless the relay needs no auth.")
	} else {
		ok("SMTP credentials present for " + cfg.Email.SMTPHost)
	}

	if cfg.HTTPAddr == "" {
		warn("http_addr empty; status API disabled.")
	} else if len(cfg.APITokens) == 0 {
		warn("status API on " + cfg.HTTPAddr + " has no api_tokens; it is open to anyone who can reach it.")
	} else {
		ok("status API on " + cfg.HTTPAddr)
	}

	if cfg.LogDir == "" {
		warn("log_dir empty; logging to console only.")
	} else {
		ok("log_dir=" + cfg.LogDir)
	}

	ok("preflight passed")
}
