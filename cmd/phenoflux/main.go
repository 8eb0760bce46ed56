package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"phenoflux/internal/version"
	"phenoflux/pkg/config"
	"phenoflux/pkg/debug"
	"phenoflux/pkg/fluor"
	"phenoflux/pkg/hyperspectral"
	"phenoflux/pkg/outputs"
	"phenoflux/pkg/photosynthesis"
)

func main() {
	// Parse command line arguments
	framesDir := flag.String("frames", "", "Directory of fluorescence frame images named <measurement>_<frame_label>.png")
	maskPath := flag.String("mask", "", "Binary plant mask image")
	variantName := flag.String("variant", "darkadapted", "Acquisition variant: darkadapted or lightadapted")
	labelsArg := flag.String("labels", "", "Comma-separated measurement labels (default: native coordinates)")
	sample := flag.String("sample", "", "Sample label for recorded observations")
	configPath := flag.String("config", "config.yaml", "YAML configuration file")
	debugMode := flag.String("debug-mode", "", "Debug visual mode: none or print")
	debugDir := flag.String("debug-dir", "", "Directory for debug visuals")
	resultsPath := flag.String("results", "", "Observation JSON output file")
	enviPath := flag.String("envi", "", "Export the efficiency map as an ENVI cube at this base path")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().
		Timestamp().
		Logger()

	// Validate inputs
	if *framesDir == "" || *maskPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	log.Info().Str("version", version.Version).Msg("phenoflux fluorescence analysis")

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Command line flags override the configuration file
	if *sample != "" {
		cfg.Analysis.SampleLabel = *sample
	}
	if *labelsArg != "" {
		cfg.Analysis.MeasurementLabels = strings.Split(*labelsArg, ",")
	}
	if *debugMode != "" {
		cfg.Debug.Mode = *debugMode
	}
	if *debugDir != "" {
		cfg.Debug.OutDir = *debugDir
	}
	if *resultsPath != "" {
		cfg.Output.ResultsFile = *resultsPath
	}
	if *enviPath != "" {
		cfg.Output.ExportENVI = true
		cfg.Output.ENVIFile = *enviPath
	}
	if !cfg.Output.Verbose {
		log = log.Level(zerolog.WarnLevel)
	}

	variant, err := fluor.ParseVariant(*variantName)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid variant")
	}
	mode, err := debug.ParseMode(cfg.Debug.Mode)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid debug mode")
	}

	stack, err := fluor.LoadStack(*framesDir, variant)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load fluorescence stack")
	}
	log.Info().
		Int("rows", stack.Rows).
		Int("cols", stack.Cols).
		Strs("frames", stack.FrameLabels).
		Strs("measurements", stack.Measurements).
		Msg("loaded stack")

	mask, err := fluor.LoadMask(*maskPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load mask")
	}

	results := outputs.NewResults()
	recorder := debug.NewRecorder(mode, cfg.Debug.OutDir)
	analyzer := photosynthesis.NewAnalyzer(results, recorder)

	yii, _, err := analyzer.AnalyzeEfficiency(stack, mask, cfg.Analysis.MeasurementLabels, cfg.Analysis.SampleLabel)
	if err != nil {
		log.Fatal().Err(err).Msg("efficiency analysis failed")
	}

	// Report the scalar statistics
	for _, obs := range results.Observations {
		if obs.Datatype != "float" {
			continue
		}
		log.Info().
			Str("variable", obs.Variable).
			Str("trait", obs.Trait).
			Interface("value", obs.Value).
			Msg("observation")
	}

	if err := results.SaveResults(cfg.Output.ResultsFile); err != nil {
		log.Fatal().Err(err).Msg("failed to save results")
	}
	log.Info().Str("path", cfg.Output.ResultsFile).Msg("observations saved")

	if cfg.Output.ExportENVI {
		if err := exportENVI(cfg.Output.ENVIFile, yii); err != nil {
			log.Fatal().Err(err).Msg("ENVI export failed")
		}
		log.Info().Str("path", cfg.Output.ENVIFile).Msg("efficiency map exported as ENVI cube")
	}
}

// exportENVI writes the efficiency map as an ENVI cube with one band per
// measurement. Measurement indices stand in for wavelengths since the bands
// are timepoints rather than spectral channels.
func exportENVI(path string, yii *fluor.EfficiencyMap) error {
	bands := yii.NumMeasurements()
	cube := &hyperspectral.SpectralData{
		Data:            make([]float64, len(yii.Data)),
		Lines:           yii.Rows,
		Samples:         yii.Cols,
		Bands:           bands,
		Wavelengths:     make([]float64, bands),
		WavelengthUnits: "none",
		DefaultBands:    []int{1},
	}
	for i := range cube.Wavelengths {
		cube.Wavelengths[i] = float64(i)
	}
	for row := 0; row < yii.Rows; row++ {
		for col := 0; col < yii.Cols; col++ {
			for m := 0; m < bands; m++ {
				cube.Data[(row*yii.Cols+col)*bands+m] = yii.At(row, col, m)
			}
		}
	}
	if err := hyperspectral.WriteData(path, cube); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
