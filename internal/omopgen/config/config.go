package config

import (
	"fmt"
	"time"

	"github.com/araddon/dateparse"
	"github.com/spf13/viper"

	"github.com/vaibhaw-/omopgen/internal/omopgen/cdm"
	"github.com/vaibhaw-/omopgen/internal/omopgen/generate"
	"github.com/vaibhaw-/omopgen/internal/omopgen/ids"
)

type GenerationCfg struct {
	Persons     int    `mapstructure:"persons"`
	Visits      int    `mapstructure:"visits"`
	Seed        uint64 `mapstructure:"seed"`
	LinkThemes  bool   `mapstructure:"link_themes"`
	CatalogFile string `mapstructure:"catalog_file"`
}

type VisitsCfg struct {
	WindowStart      string `mapstructure:"window_start"`
	WindowEnd        string `mapstructure:"window_end"`
	InpatientMinDays int    `mapstructure:"inpatient_min_days"`
	InpatientMaxDays int    `mapstructure:"inpatient_max_days"`
}

type RangeCfg struct {
	Base  int64 `mapstructure:"base"`
	Width int64 `mapstructure:"width"`
}

type IDsCfg struct {
	Person              RangeCfg `mapstructure:"person"`
	VisitOccurrence     RangeCfg `mapstructure:"visit_occurrence"`
	ConditionOccurrence RangeCfg `mapstructure:"condition_occurrence"`
	DrugExposure        RangeCfg `mapstructure:"drug_exposure"`
	Measurement         RangeCfg `mapstructure:"measurement"`
}

type OutputCfg struct {
	Dir     string `mapstructure:"dir"`
	Format  string `mapstructure:"format"`  // csv or sql
	Dialect string `mapstructure:"dialect"` // for sql output
}

type LoggingCfg struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
	RunLog      string `mapstructure:"run_log"`
}

type DatabaseCfg struct {
	Driver  string        `mapstructure:"driver"`
	DSN     string        `mapstructure:"dsn"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type Config struct {
	Generation GenerationCfg `mapstructure:"generation"`
	Visits     VisitsCfg     `mapstructure:"visits"`
	IDs        IDsCfg        `mapstructure:"ids"`
	Output     OutputCfg     `mapstructure:"output"`
	Logging    LoggingCfg    `mapstructure:"logging"`
	Database   DatabaseCfg   `mapstructure:"database"`
}

var cfg *Config

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	def := generate.DefaultOptions()
	v.SetDefault("generation.persons", def.Persons)
	v.SetDefault("generation.visits", def.Visits)
	v.SetDefault("generation.seed", 0)
	v.SetDefault("generation.link_themes", false)
	v.SetDefault("generation.catalog_file", "")

	v.SetDefault("visits.window_start", def.Rules.WindowStart.String())
	v.SetDefault("visits.window_end", def.Rules.WindowEnd.String())
	v.SetDefault("visits.inpatient_min_days", def.Rules.InpatientMinDays)
	v.SetDefault("visits.inpatient_max_days", def.Rules.InpatientMaxDays)

	for name, r := range def.Ranges {
		v.SetDefault("ids."+name+".base", r.Base)
		v.SetDefault("ids."+name+".width", r.Width)
	}

	v.SetDefault("output.dir", "export")
	v.SetDefault("output.format", "csv")
	v.SetDefault("output.dialect", "postgres")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.development", false)
	v.SetDefault("logging.run_log", "")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.timeout", "5m")
}

// Load populates global config from a viper instance
func Load(v *viper.Viper) error {
	SetDefaults(v)

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	cfg = &c
	return nil
}

func Get() *Config {
	if cfg == nil {
		cfg = &Config{}
	}
	return cfg
}

// Ranges converts the ids section.
func (c *Config) Ranges() ids.Ranges {
	return ids.Ranges{
		ids.Person:              {Name: ids.Person, Base: c.IDs.Person.Base, Width: c.IDs.Person.Width},
		ids.VisitOccurrence:     {Name: ids.VisitOccurrence, Base: c.IDs.VisitOccurrence.Base, Width: c.IDs.VisitOccurrence.Width},
		ids.ConditionOccurrence: {Name: ids.ConditionOccurrence, Base: c.IDs.ConditionOccurrence.Base, Width: c.IDs.ConditionOccurrence.Width},
		ids.DrugExposure:        {Name: ids.DrugExposure, Base: c.IDs.DrugExposure.Base, Width: c.IDs.DrugExposure.Width},
		ids.Measurement:         {Name: ids.Measurement, Base: c.IDs.Measurement.Base, Width: c.IDs.Measurement.Width},
	}
}

// VisitRules parses the visit window. Dates may be in any format
// dateparse understands; they are truncated to the UTC day.
func (c *Config) VisitRules() (generate.VisitRules, error) {
	start, err := dateparse.ParseIn(c.Visits.WindowStart, time.UTC)
	if err != nil {
		return generate.VisitRules{}, fmt.Errorf("visits.window_start %q: %w", c.Visits.WindowStart, err)
	}
	end, err := dateparse.ParseIn(c.Visits.WindowEnd, time.UTC)
	if err != nil {
		return generate.VisitRules{}, fmt.Errorf("visits.window_end %q: %w", c.Visits.WindowEnd, err)
	}
	return generate.VisitRules{
		WindowStart:      cdm.NewDate(start),
		WindowEnd:        cdm.NewDate(end),
		InpatientMinDays: c.Visits.InpatientMinDays,
		InpatientMaxDays: c.Visits.InpatientMaxDays,
	}, nil
}

// GenerateOptions builds validated pipeline options.
func (c *Config) GenerateOptions() (generate.Options, error) {
	rules, err := c.VisitRules()
	if err != nil {
		return generate.Options{}, err
	}
	opts := generate.Options{
		Persons:    c.Generation.Persons,
		Visits:     c.Generation.Visits,
		Ranges:     c.Ranges(),
		Rules:      rules,
		LinkThemes: c.Generation.LinkThemes,
	}
	if err := opts.Validate(); err != nil {
		return generate.Options{}, err
	}
	return opts, nil
}
