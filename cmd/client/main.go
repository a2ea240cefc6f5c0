package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/adrianliechti/payroll/pkg/client"

	"github.com/google/uuid"
)

func main() {
	urlFlag := flag.String("url", "http://localhost:8080", "server url")
	tokenFlag := flag.String("token", "", "server token")
	modelFlag := flag.String("model", "", "model id")
	analyzerFlag := flag.String("analyzer", "", "analyzer id")
	formatFlag := flag.String("format", "csv", "export format (csv, excel)")
	outputFlag := flag.String("output", "", "output directory")
	listFlag := flag.Bool("models", false, "list available models")

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	options := []client.RequestOption{}

	if *tokenFlag != "" {
		options = append(options, client.WithToken(*tokenFlag))
	}

	c := client.New(*urlFlag, options...)

	if *listFlag {
		if err := listModels(ctx, c); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		return
	}

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: client [flags] files...")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := export(ctx, c, *modelFlag, *analyzerFlag, *formatFlag, *outputFlag, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func listModels(ctx context.Context, c *client.Client) error {
	models, err := c.Models.List(ctx)

	if err != nil {
		return err
	}

	for i, m := range models {
		fmt.Printf("%2d) %s\n", i+1, m.ID)
	}

	return nil
}

func export(ctx context.Context, c *client.Client, model, analyzer, format, output string, paths []string) error {
	var files []client.File

	for _, path := range paths {
		f, err := os.Open(path)

		if err != nil {
			return err
		}

		defer f.Close()

		files = append(files, client.File{
			Name:   filepath.Base(path),
			Reader: f,
		})
	}

	result, err := c.Exports.New(ctx, client.ExportRequest{
		ExtractionRequest: client.ExtractionRequest{
			Model:    model,
			Analyzer: analyzer,

			Files: files,
		},

		Format: format,
	})

	if err != nil {
		return err
	}

	name := result.Name

	if name == "" {
		name = uuid.New().String()
	}

	if output != "" {
		if err := os.MkdirAll(output, 0o755); err != nil {
			return err
		}

		name = filepath.Join(output, name)
	}

	if err := os.WriteFile(name, result.Content, 0o600); err != nil {
		return err
	}

	fmt.Println("Saved: " + name)

	if result.Errors > 0 {
		fmt.Printf("%d of %d documents could not be processed (batch %s)\n", result.Errors, len(files), result.ID)
	}

	return nil
}
