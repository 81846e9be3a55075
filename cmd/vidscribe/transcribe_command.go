package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"vidscribe/internal/cache"
	"vidscribe/internal/clipboard"
	"vidscribe/internal/config"
	"vidscribe/internal/language"
	"vidscribe/internal/media/ffprobe"
	"vidscribe/internal/pipeline"
	"vidscribe/internal/services/pyannote"
	"vidscribe/internal/services/whisperx"
	"vidscribe/internal/services/ytdlp"
	"vidscribe/internal/transcript"
)

type transcribeFlags struct {
	output       string
	model        string
	language     string
	format       string
	clipboard    bool
	keepAudio    bool
	timestamp    bool
	quiet        bool
	outputDir    string
	cookies      string
	noCache      bool
	forceWhisper bool
	diarize      bool
	numSpeakers  int
}

// transcribeSettings is the outcome of merging flags over config.
type transcribeSettings struct {
	model   string
	cookies string
	opts    pipeline.Options
}

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var flags transcribeFlags

	cmd := &cobra.Command{
		Use:   "transcribe <url|file>...",
		Short: "Transcribe one or more URLs or local media files",
		Long: `Transcribe videos from any site yt-dlp supports, or local audio and video files.

Native captions are used when available; otherwise audio is transcribed with
WhisperX. Cached transcripts are reused until they expire.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			settings, err := resolveTranscribeSettings(cmd, flags, cfg)
			if err != nil {
				return err
			}
			return runTranscribe(cmd, ctx, cfg, settings, args)
		},
	}

	bindTranscribeFlags(cmd, &flags)
	return cmd
}

func bindTranscribeFlags(cmd *cobra.Command, flags *transcribeFlags) {
	f := cmd.Flags()
	f.StringVarP(&flags.output, "output", "o", "", "Output file base path (single input only)")
	f.StringVarP(&flags.model, "model", "m", "", "Whisper model ("+strings.Join(config.Models, ", ")+")")
	f.StringVarP(&flags.language, "language", "l", "", "Spoken language (name or code; empty auto-detects)")
	f.StringVarP(&flags.format, "format", "f", "", "Output format ("+transcript.FormatNames()+")")
	f.BoolVarP(&flags.clipboard, "clipboard", "c", false, "Copy the plain-text transcript to the clipboard")
	f.BoolVarP(&flags.keepAudio, "keep-audio", "k", false, "Keep the downloaded audio file")
	f.BoolVarP(&flags.timestamp, "timestamp", "t", false, "Append a timestamp to output file names")
	f.BoolVarP(&flags.quiet, "quiet", "q", false, "Suppress progress output")
	f.StringVar(&flags.outputDir, "output-dir", "", "Directory for output files")
	f.StringVar(&flags.cookies, "cookies", "", "Netscape cookies file passed to yt-dlp")
	f.BoolVar(&flags.noCache, "no-cache", false, "Bypass the transcript cache")
	f.BoolVar(&flags.forceWhisper, "force-whisper", false, "Skip native captions and always run WhisperX")
	f.BoolVarP(&flags.diarize, "diarize", "d", false, "Label speakers with pyannote diarization")
	f.IntVar(&flags.numSpeakers, "num-speakers", 0, "Expected number of speakers (0 lets the model decide)")
}

func resolveTranscribeSettings(cmd *cobra.Command, flags transcribeFlags, cfg *config.Config) (transcribeSettings, error) {
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}
	changed := cmd.Flags().Changed
	d := cfg.Defaults

	model := config.ResolveString(flags.model, d.Model, whisperx.DefaultModel)
	if !config.ValidModel(model) {
		return transcribeSettings{}, fmt.Errorf("invalid model %q (choose from %s)", model, strings.Join(config.Models, ", "))
	}
	format, err := transcript.ParseFormat(config.ResolveString(flags.format, d.Format, string(transcript.FormatTXT)))
	if err != nil {
		return transcribeSettings{}, err
	}
	lang, err := language.Normalize(config.ResolveString(flags.language, d.Language, ""))
	if err != nil {
		return transcribeSettings{}, err
	}
	if flags.numSpeakers < 0 {
		return transcribeSettings{}, fmt.Errorf("--num-speakers must be positive, got %d", flags.numSpeakers)
	}
	if changed("num-speakers") && !flags.diarize {
		return transcribeSettings{}, fmt.Errorf("--num-speakers requires --diarize")
	}

	outputDir := config.ResolveString(flags.outputDir, d.OutputDir, "")
	if outputDir != "" {
		if outputDir, err = config.ExpandPath(outputDir); err != nil {
			return transcribeSettings{}, fmt.Errorf("resolve output directory: %w", err)
		}
	}
	output := strings.TrimSpace(flags.output)
	if output != "" {
		if output, err = config.ExpandPath(output); err != nil {
			return transcribeSettings{}, fmt.Errorf("resolve output path: %w", err)
		}
	}

	return transcribeSettings{
		model:   model,
		cookies: config.ResolveString(flags.cookies, cfg.Downloads.Cookies, ""),
		opts: pipeline.Options{
			Output:       output,
			OutputDir:    outputDir,
			Language:     lang,
			Format:       format,
			Timestamp:    flags.timestamp,
			Clipboard:    config.Resolve(flags.clipboard, changed("clipboard"), d.Clipboard),
			KeepAudio:    config.Resolve(flags.keepAudio, changed("keep-audio"), d.KeepAudio),
			Quiet:        config.Resolve(flags.quiet, changed("quiet"), d.Quiet),
			NoCache:      flags.noCache || !cfg.Cache.Enabled,
			ForceWhisper: flags.forceWhisper,
			Diarize:      flags.diarize,
			NumSpeakers:  flags.numSpeakers,
			Concurrency:  cfg.Downloads.Concurrency,
		},
	}, nil
}

func runTranscribe(cmd *cobra.Command, ctx *commandContext, cfg *config.Config, settings transcribeSettings, inputs []string) error {
	logger, err := ctx.logger()
	if err != nil {
		return err
	}
	opts := settings.opts
	out := cmd.OutOrStdout()
	opts.Color = shouldColorize(out)

	runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := pipeline.Deps{
		Downloader: ytdlp.New(cfg.YTDLPBinary(),
			ytdlp.WithCookies(settings.cookies),
			ytdlp.WithLogger(logger)),
		Prober: ffprobe.New(cfg.FFprobeBinary(), nil),
		Out:    out,
		Logger: logger,
	}

	if opts.Diarize {
		token, err := pyannote.ResolveToken("", cfg.Diarization.HFToken)
		if err != nil {
			return err
		}
		diarizer, err := pyannote.New(token,
			pyannote.WithUVX(cfg.UVXBinary()),
			pyannote.WithLogger(logger))
		if err != nil {
			return err
		}
		defer diarizer.Close()
		deps.Diarizer = diarizer
	}

	engine := whisperx.New(whisperx.Config{
		Model:       settings.model,
		CUDAEnabled: cfg.WhisperX.CUDAEnabled,
		VADMethod:   cfg.WhisperX.VADMethod,
		HFToken:     cfg.Diarization.HFToken,
	},
		whisperx.WithBinaries(cfg.UVXBinary(), cfg.FFmpegBinary()),
		whisperx.WithProber(ffprobe.New(cfg.FFprobeBinary(), nil)),
		whisperx.WithLogger(logger))
	defer engine.Close()
	deps.Engine = engine

	if !opts.NoCache {
		deps.Cache = cache.New(cfg.Cache.Path, cfg.Cache.TTLDays, cache.WithLogger(logger))
	}
	if opts.Clipboard {
		deps.Clipboard = clipboard.New()
	}

	runner, err := pipeline.New(opts, deps)
	if err != nil {
		return err
	}
	summary, err := runner.Run(runCtx, inputs)
	if err != nil {
		if runCtx.Err() != nil {
			return context.Canceled
		}
		if summary.Failed > 0 {
			return errSilentFailure
		}
		return err
	}
	if summary.Failed > 0 {
		return errSilentFailure
	}
	return nil
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
