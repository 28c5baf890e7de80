// internal/platform/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"applyswarm/internal/core/domain"
)

// Config es la configuración centralizada del run.
type Config struct {
	// Paths
	StatePath string `yaml:"state_path"` // targets.json
	LogDir    string `yaml:"log_dir"`    // artefactos attempt_<n>.log
	ProofDir  string `yaml:"proof_dir"`  // screenshots del worker
	BackupDir string `yaml:"backup_dir"` // destino del mirror externo

	// Orchestration
	BatchSize   int `yaml:"batch_size"`   // workers concurrentes por batch
	TTLSeconds  int `yaml:"ttl_seconds"`  // TTL duro por target
	MaxAttempts int `yaml:"max_attempts"` // presupuesto de self-heal

	// Targets: exactamente domain.Cardinality entradas
	Targets []TargetSeed `yaml:"targets"`

	// Worker
	Worker Worker `yaml:"worker"`

	// Publish
	Publish Publish `yaml:"publish"`

	// UI
	UIMode string `yaml:"ui"` // compact | quiet

	PrintVersion bool `yaml:"-"`
}

// TargetSeed es una entrada de target en el fichero de configuración.
type TargetSeed struct {
	Company string `yaml:"company"`
	URL     string `yaml:"url"`
}

// Worker configura la invocación del worker externo de automatización.
type Worker struct {
	// Command binario del worker (se resuelve vía PATH si no es absoluto)
	Command string `yaml:"command"`

	// Args argumentos fijos antepuestos a los del dispatch
	Args []string `yaml:"args"`

	// ProfilePath perfil del candidato que el worker consume verbatim
	ProfilePath string `yaml:"profile_path"`

	// ResumePath currículum que el worker adjunta
	ResumePath string `yaml:"resume_path"`
}

// Publish configura el publish gate.
type Publish struct {
	// Enabled si false, no se hace checkpoint ni push
	Enabled bool `yaml:"enabled"`

	// RepoDir working tree versionado (default: ".")
	RepoDir string `yaml:"repo_dir"`

	// Branch rama trunk; el push se restringe a ella
	Branch string `yaml:"branch"`

	// Remote nombre del remote ("" = solo checkpoint local)
	Remote string `yaml:"remote"`

	// RunKind etiqueta del run en el mensaje de commit
	RunKind string `yaml:"run_kind"`

	// NoPush deshabilita el push aunque haya remote
	NoPush bool `yaml:"no_push"`
}

// defaultTargets es la lista fija de diez destinos del run.
var defaultTargets = []TargetSeed{
	{Company: "Curtin Maritime", URL: "https://curtinmaritime.bamboohr.com/jobs"},
	{Company: "Great Lakes Dredge & Dock", URL: "https://gldd.com/careers/"},
	{Company: "Weeks Marine", URL: "https://kiewitcareers.kiewit.com/Weeks"},
	{Company: "Manson Construction", URL: "https://www.mansonconstruction.com/careers"},
	{Company: "Callan Marine", URL: "https://www.callanmarineltd.com/careers"},
	{Company: "Cashman Dredging", URL: "https://www.jaycashman.com/careers/"},
	{Company: "Viking Dredging", URL: "https://www.vikingdredging.com/join-our-team.php"},
	{Company: "Muddy Water Dredging", URL: "https://mwdredging.com/job-opportunities/"},
	{Company: "Orion Government Services", URL: "https://oriongov.com"},
	{Company: "Moran Towing", URL: "https://www.morantug.com/careers-at-moran/"},
}

// DefaultConfig retorna una configuración por defecto.
func DefaultConfig() Config {
	return Config{
		StatePath:   "targets.json",
		LogDir:      "logs",
		ProofDir:    "proof",
		BackupDir:   ".backup",
		BatchSize:   3,
		TTLSeconds:  90,
		MaxAttempts: 15,
		Targets:     append([]TargetSeed(nil), defaultTargets...),
		Worker: Worker{
			Command:     "swarm-worker",
			ProfilePath: "profile.json",
			ResumePath:  "resume.pdf",
		},
		Publish: Publish{
			Enabled: true,
			RepoDir: ".",
			Branch:  "main",
			Remote:  "origin",
			RunKind: "job-swarm",
		},
		UIMode: "compact",
	}
}

// Load construye la configuración: defaults <- fichero yaml <- flags <- env.
func Load(args []string) (Config, error) {
	cfg := DefaultConfig()

	fs := pflag.NewFlagSet("applyswarm", pflag.ContinueOnError)

	configPath := fs.String("config", "", "Ruta del fichero de configuración YAML")
	fs.StringVar(&cfg.StatePath, "state", cfg.StatePath, "Ruta del run state (targets.json)")
	fs.StringVar(&cfg.LogDir, "logs", cfg.LogDir, "Directorio de artefactos de log por intento")
	fs.StringVar(&cfg.ProofDir, "proof", cfg.ProofDir, "Directorio de screenshots de prueba")
	fs.StringVar(&cfg.Worker.Command, "worker", cfg.Worker.Command, "Binario del worker de automatización")
	fs.IntVar(&cfg.BatchSize, "batch-size", cfg.BatchSize, "Workers concurrentes por batch")
	fs.IntVar(&cfg.TTLSeconds, "ttl", cfg.TTLSeconds, "TTL por target en segundos")
	fs.IntVar(&cfg.MaxAttempts, "max-attempts", cfg.MaxAttempts, "Presupuesto de intentos de self-heal")
	fs.StringVar(&cfg.UIMode, "ui", cfg.UIMode, "Modo de UI (compact|quiet)")
	fs.BoolVar(&cfg.Publish.NoPush, "no-push", cfg.Publish.NoPush, "No hacer push tras el checkpoint")
	fs.BoolVar(&cfg.PrintVersion, "version", false, "Imprimir versión y salir")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// El fichero se aplica sobre defaults y después se re-aplican los
	// flags explícitos para que mantengan precedencia. Los valores se
	// capturan antes de cargar el fichero: los flags están ligados a los
	// campos de cfg y el unmarshal los pisaría.
	if *configPath != "" {
		explicit := make(map[string]string)
		fs.Visit(func(f *pflag.Flag) {
			explicit[f.Name] = f.Value.String()
		})
		if err := loadFile(&cfg, *configPath); err != nil {
			return Config{}, err
		}
		for name, value := range explicit {
			if err := fs.Set(name, value); err != nil {
				return Config{}, err
			}
		}
	}

	if dir := os.Getenv("APPLYSWARM_BACKUP_DIR"); dir != "" {
		cfg.BackupDir = dir
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// loadFile aplica un fichero YAML sobre cfg.
func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate verifica la configuración cargada.
func (c Config) Validate() error {
	if len(c.Targets) != domain.Cardinality {
		return fmt.Errorf("config targets: got %d, want exactly %d",
			len(c.Targets), domain.Cardinality)
	}
	seen := make(map[string]struct{}, len(c.Targets))
	for _, t := range c.Targets {
		if t.Company == "" || t.URL == "" {
			return fmt.Errorf("config targets: company and url are required")
		}
		if _, dup := seen[t.Company]; dup {
			return fmt.Errorf("config targets: duplicate company %q", t.Company)
		}
		seen[t.Company] = struct{}{}
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be > 0")
	}
	if c.TTLSeconds <= 0 {
		return fmt.Errorf("ttl_seconds must be > 0")
	}
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("max_attempts must be > 0")
	}
	if c.Worker.Command == "" {
		return fmt.Errorf("worker command is required")
	}
	return nil
}

// TTL retorna el TTL por target como duración.
func (c Config) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// SeedTargets materializa los targets PENDING del run.
func (c Config) SeedTargets() []*domain.Target {
	out := make([]*domain.Target, 0, len(c.Targets))
	for _, seed := range c.Targets {
		out = append(out, domain.NewTarget(seed.Company, seed.URL))
	}
	return out
}
