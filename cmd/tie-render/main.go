package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-tie/internal/prompt"
	"github.com/goliatone/go-tie/pkg/engine"
	"github.com/goliatone/go-tie/pkg/manifest"
	"github.com/goliatone/go-tie/pkg/markup/htmldom"
)

type options struct {
	htmlPath     string
	manifestPath string
	dataPath     string
	ask          bool
	verbose      bool
}

func main() {
	htmlPath := flag.String("html", "", "HTML document holding the template markup")
	manifestPath := flag.String("manifest", "", "binding manifest (JSON or YAML)")
	dataPath := flag.String("data", "", "data file (JSON or YAML); empty renders with no data")
	output := flag.String("output", "", "output file (stdout if empty)")
	ask := flag.Bool("prompt", false, "ask for properties missing from the data")
	verbose := flag.Bool("v", false, "log template debug records to stderr")
	flag.Parse()

	opts := options{
		htmlPath:     *htmlPath,
		manifestPath: *manifestPath,
		dataPath:     *dataPath,
		ask:          *ask,
		verbose:      *verbose,
	}

	out, err := run(context.Background(), opts, prompt.NewSurveyDriver())
	if err != nil {
		log.Fatalf("Failed to render template: %v", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, []byte(out), 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Output written to %s\n", *output)
	} else {
		fmt.Println(out)
	}
}

func run(ctx context.Context, opts options, driver prompt.Driver) (string, error) {
	if opts.htmlPath == "" || opts.manifestPath == "" {
		return "", errors.New("both -html and -manifest are required")
	}

	m, err := manifest.Load(opts.manifestPath)
	if err != nil {
		return "", err
	}

	f, err := os.Open(opts.htmlPath)
	if err != nil {
		return "", fmt.Errorf("open html: %w", err)
	}
	defer f.Close()
	doc, err := htmldom.Parse(f)
	if err != nil {
		return "", err
	}

	data, err := loadData(opts.dataPath)
	if err != nil {
		return "", err
	}
	if opts.ask {
		if err := prompt.Fill(ctx, driver, m.Properties(), data); err != nil {
			return "", err
		}
	}

	var engineOpts []engine.Option
	if opts.verbose {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		engineOpts = append(engineOpts, engine.WithLogger(logger))
	}

	tmpl, err := m.Build(doc, engineOpts...)
	if err != nil {
		return "", err
	}
	if m.KeepPosition {
		if _, err := tmpl.Render(data); err != nil {
			return "", err
		}
		return doc.HTML()
	}
	return tmpl.Render(data)
}

func loadData(path string) (map[string]any, error) {
	data := make(map[string]any)
	if path == "" {
		return data, nil
	}

	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open data: %w", err)
		}
		defer f.Close()
		r = f
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read data: %w", err)
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return data, nil
	}

	if err := json.Unmarshal(raw, &data); err == nil {
		return data, nil
	}
	data = make(map[string]any)
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse data %s: invalid JSON or YAML: %w", path, err)
	}
	return data, nil
}
