package main

import (
	"encoding/json"
	"flag"
	"os"
	"time"

	"storefront/internal/catalog"
	"storefront/internal/importer"
	"storefront/internal/logx"
)

func main() {
	var (
		filePath string
		outPath  string
	)
	flag.StringVar(&filePath, "file", "", "Path to catalog CSV export")
	flag.StringVar(&outPath, "out", "", "Where to write the JSON catalog (stdout when empty)")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}
	logger := logx.NewWithWriter(logx.Development, "importer", os.Stderr)

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("open file")
	}
	defer f.Close()

	start := time.Now()
	products, err := importer.NewCSVImporter(f).Run()
	if err != nil {
		logger.Fatal().Err(err).Msg("import failed")
	}
	if _, err := catalog.New(products); err != nil {
		logger.Fatal().Err(err).Msg("catalog rejected")
	}

	out := os.Stdout
	if outPath != "" {
		if out, err = os.Create(outPath); err != nil {
			logger.Fatal().Err(err).Msg("create output")
		}
		defer out.Close()
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(products); err != nil {
		logger.Fatal().Err(err).Msg("write catalog")
	}

	logger.Info().
		Int("products", len(products)).
		Dur("took", time.Since(start).Truncate(time.Millisecond)).
		Msg("catalog imported")
}
