// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/olegiv/userbird/internal/geoip"
	"github.com/olegiv/userbird/internal/service"
	"github.com/olegiv/userbird/internal/store"
)

// stdout is where command output goes; replaced in tests.
var stdout io.Writer = os.Stdout

const cliTimeout = 30 * time.Second

type migrateCommand struct{}

func (c *migrateCommand) Execute([]string) error {
	a, err := openApp(os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	v, err := store.MigrationVersion(a.db)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(stdout, "database %s at schema version %d\n", a.cfg.DBPath, v)
	return nil
}

type formCommand struct {
	Create formCreateCommand `command:"create" description:"Register a website and print its install snippets"`
	List   formListCommand   `command:"list" description:"List registered forms"`
}

type formCreateCommand struct {
	URL  string `long:"url" required:"true" description:"Website host, e.g. example.com or localhost:3000"`
	JSON bool   `long:"json" description:"Print the form and snippets as JSON"`
}

func (c *formCreateCommand) Execute([]string) error {
	a, err := openApp(os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cliTimeout)
	defer cancel()

	forms := service.NewFormService(a.db, nil, a.cfg.PublicURL, a.logger)
	form, err := forms.Create(ctx, c.URL)
	if err != nil {
		return err
	}
	snippets := forms.Snippets(form.ID)

	if c.JSON {
		return writeJSONOut(map[string]any{"form": form, "snippets": snippets})
	}

	_, _ = fmt.Fprintf(stdout, "Form ID: %s\nURL:     %s\n\n", form.ID, form.URL)
	_, _ = fmt.Fprintf(stdout, "Trigger button:\n%s\n\nScript:\n%s\n\nReact:\n%s\n",
		snippets.HTML, snippets.Script, snippets.React)
	return nil
}

type formListCommand struct {
	JSON bool `long:"json" description:"Print JSON"`
}

func (c *formListCommand) Execute([]string) error {
	a, err := openApp(os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cliTimeout)
	defer cancel()

	forms, err := service.NewFormService(a.db, nil, a.cfg.PublicURL, a.logger).List(ctx)
	if err != nil {
		return err
	}

	if c.JSON {
		return writeJSONOut(forms)
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tURL\tFEEDBACK\tCREATED")
	for _, f := range forms {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", f.ID, f.URL, f.FeedbackCount, f.CreatedAt.Format(time.RFC3339))
	}
	return tw.Flush()
}

type feedbackCommand struct {
	List feedbackListCommand `command:"list" description:"List feedback for a form, newest first"`
}

type feedbackListCommand struct {
	Form   string `long:"form" required:"true" description:"Form ID"`
	Limit  int64  `long:"limit" default:"50" description:"Maximum rows"`
	Offset int64  `long:"offset" default:"0" description:"Rows to skip"`
	JSON   bool   `long:"json" description:"Print JSON"`
}

func (c *feedbackListCommand) Execute([]string) error {
	a, err := openApp(os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cliTimeout)
	defer cancel()

	countries, err := geoip.Open(a.cfg.GeoIPDBPath)
	if err != nil {
		a.logger.Warn("geoip disabled", "error", err)
	}
	defer func() { _ = countries.Close() }()

	page, err := service.NewFeedbackService(a.db).WithCountries(countries).List(ctx, c.Form, c.Limit, c.Offset)
	if err != nil {
		return err
	}

	if c.JSON {
		return writeJSONOut(page)
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "CREATED\tBROWSER\tOS\tCOUNTRY\tMESSAGE")
	for _, fb := range page.Items {
		country := fb.Country
		if country == "" {
			country = "-"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			fb.CreatedAt.Format(time.RFC3339), fb.Browser, fb.OS, country, oneLine(fb.Message, 80))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(stdout, "\n%d of %d\n", len(page.Items), page.Total)
	return nil
}

type versionCommand struct{}

func (c *versionCommand) Execute([]string) error {
	_, _ = fmt.Fprintln(stdout, buildInfo().String())
	return nil
}

func writeJSONOut(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// oneLine collapses whitespace and truncates s to limit runes.
func oneLine(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}
