package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/textassist/internal/action"
	"go.klb.dev/textassist/internal/clip"
	"go.klb.dev/textassist/internal/ipc"
	"go.klb.dev/textassist/internal/llm"
	"go.klb.dev/textassist/internal/logging"
	"go.klb.dev/textassist/internal/monitor"
	"go.klb.dev/textassist/internal/panel"
	"go.klb.dev/textassist/internal/pointer"
)

// bindViper wires a command's flags into a viper instance with the standard
// config file search order and TEXTASSIST_* env var prefix.
//
// Precedence (lowest → highest): defaults → config file → TEXTASSIST_* env vars → flags
func bindViper(cmd *cobra.Command, v *viper.Viper) error {
	configFlag, _ := cmd.Flags().GetString("config")
	if configFlag != "" {
		v.SetConfigFile(configFlag)
	} else {
		v.SetConfigName("textassist")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc/textassist/")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(fmt.Sprintf("%s/.config/textassist", home))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("config: %w", err)
		}
	}

	v.SetEnvPrefix("TEXTASSIST")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}
	return nil
}

// addLoggingFlags adds the standard logging flags to a command.
func addLoggingFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("no-background", false, "run interactively: tinter logs + debug level")
	cmd.Flags().String("log-format", "auto", "log format: auto|text|json")
	cmd.Flags().String("log-level", "", "log level: debug|info|warn|error (default: info for service, debug for interactive)")
}

// addConfigFlag adds the --config flag to a command.
func addConfigFlag(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "path to config file (overrides auto-discovery)")
}

// addSocketFlag adds the --socket flag used to reach the daemon.
func addSocketFlag(cmd *cobra.Command) {
	cmd.Flags().String("socket", ipc.SocketPath(), "control socket path")
}

// addLLMFlags adds the flags that configure the text assistant.
func addLLMFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("api-key", "", "API key (falls back to $GOOGLE_API_KEY)")
	f.String("base-url", llm.DefaultBaseURL, "OpenAI-compatible API base URL")
	f.String("model", llm.DefaultModel, "model name")
	f.Duration("llm-timeout", llm.DefaultTimeout, "timeout for one model request")
	f.Bool("simulate", false, "answer with canned text instead of calling the API")
	f.String("summary-length", string(action.Medium), "summary length: short|medium|long")
	f.String("language", action.DefaultLanguage.Name, "translation language offered first (name or code)")
}

// setupLogging reads logging flags from viper and configures slog.
func setupLogging(v *viper.Viper) {
	interactive := v.GetBool("no-background") || logging.IsTTY(os.Stderr)
	resolveLogging(interactive, v.GetString("log-format"), v.GetString("log-level"))
}

func llmConfig(v *viper.Viper) llm.Config {
	key := v.GetString("api-key")
	if key == "" {
		key = os.Getenv("GOOGLE_API_KEY")
	}
	return llm.Config{
		APIKey:   key,
		BaseURL:  v.GetString("base-url"),
		Model:    v.GetString("model"),
		Timeout:  v.GetDuration("llm-timeout"),
		Simulate: v.GetBool("simulate"),
	}
}

// preselectedLanguage resolves --language, falling back to the default.
func preselectedLanguage(v *viper.Viper) (action.Language, error) {
	name := v.GetString("language")
	if name == "" {
		return action.DefaultLanguage, nil
	}
	l, ok := action.LookupLanguage(name)
	if !ok {
		return action.Language{}, fmt.Errorf("unsupported language %q", name)
	}
	return l, nil
}

// monitorSettings reads the tunables that can change while the daemon runs.
func monitorSettings(v *viper.Viper) monitor.Settings {
	s := monitor.Settings{
		Interval:    v.GetDuration("interval"),
		ReadTimeout: v.GetDuration("read-timeout"),
		Grace:       v.GetDuration("grace"),
		Offset:      &pointer.Point{X: v.GetInt("offset-x"), Y: v.GetInt("offset-y")},
	}
	if l, err := preselectedLanguage(v); err == nil {
		s.Language = l
	}
	return s
}

// addMonitorFlags adds the daemon's polling and panel flags.
func addMonitorFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Duration("interval", monitor.DefaultInterval, "clipboard poll interval")
	f.Duration("read-timeout", clip.DefaultTimeout, "timeout for one clipboard read")
	f.Duration("grace", panel.DefaultGrace, "ignore focus loss this long after the panel appears")
	f.Int("offset-x", monitor.DefaultOffset.X, "panel offset from the pointer, x")
	f.Int("offset-y", monitor.DefaultOffset.Y, "panel offset from the pointer, y")
	f.String("clipboard", "auto", "clipboard reader: auto|native|wl-paste|xclip|xsel|pbpaste")
}
