package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		Driver   string `yaml:"driver"` // sqlite, mysql, postgres
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		Path     string `yaml:"path"` // sqlite file
	} `yaml:"database"`

	Minio struct {
		Endpoint   string `yaml:"endpoint"` // empty = artifact archiving off
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	OpenAI struct {
		APIKey string `yaml:"apiKey"` // empty = local rule-based summaries
		Model  string `yaml:"model"`
	} `yaml:"openai"`

	Audit struct {
		Schedule      string   `yaml:"schedule"` // 5-field cron, empty = disabled
		BrandKeywords []string `yaml:"brandKeywords"`
	} `yaml:"audit"`

	Generator struct {
		Entities   []string            `yaml:"entities"`
		Categories []string            `yaml:"categories"`
		Sources    []string            `yaml:"sources"`
		Items      map[string][]string `yaml:"items"`
		BasePrices map[string]float64  `yaml:"basePrices"`
	} `yaml:"generator"`
}

// Load baca file config.yaml; file yang tidak ada berarti pakai default semua
func Load(path string) (*Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyDefaults()
			return &cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.Path == "" {
		c.Database.Path = "tender_audit.db"
	}
	if c.Minio.BucketName == "" {
		c.Minio.BucketName = "tender-audit"
	}
	if c.Minio.Region == "" {
		c.Minio.Region = "us-east-1"
	}
	if len(c.Audit.BrandKeywords) == 0 {
		c.Audit.BrandKeywords = defaultBrandKeywords()
	}
	if len(c.Generator.Entities) == 0 {
		c.Generator.Entities = defaultEntities()
	}
	if len(c.Generator.Categories) == 0 {
		c.Generator.Categories = defaultCategories()
	}
	if len(c.Generator.Sources) == 0 {
		c.Generator.Sources = defaultSources()
	}
	if len(c.Generator.Items) == 0 {
		c.Generator.Items = defaultItems()
	}
	if len(c.Generator.BasePrices) == 0 {
		c.Generator.BasePrices = defaultBasePrices()
	}
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// Helper untuk build DSN Postgres
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}

func defaultBrandKeywords() []string {
	return []string{
		"herman miller", "dell", "hp", "lenovo", "apple",
		"microsoft", "samsung", "lg", "sony", "canon",
		"epson", "toyota", "nissan", "ford", "mercedes",
		"bmw", "cisco", "intel", "amd", "oracle",
	}
}

func defaultEntities() []string {
	return []string{
		"Ministry of Health",
		"Ministry of Education",
		"Kenya Rural Roads Authority",
		"Nairobi City County",
		"Mombasa County Government",
		"Kenya Power and Lighting Company",
		"National Police Service",
		"Kenya Revenue Authority",
	}
}

func defaultCategories() []string {
	return []string{
		"IT Equipment",
		"Office Furniture",
		"Medical Supplies",
		"Vehicles",
		"Stationery",
		"Construction Materials",
	}
}

func defaultSources() []string {
	return []string{
		"Kenya Bureau of Statistics",
		"Public Procurement Regulatory Authority",
		"Market Survey 2024",
		"Supplier Catalogue",
	}
}

func defaultItems() map[string][]string {
	return map[string][]string{
		"IT Equipment":           {"Laptop", "Desktop Computer", "Printer", "Projector"},
		"Office Furniture":       {"Office Chair", "Desk", "Filing Cabinet"},
		"Medical Supplies":       {"Stethoscope", "Hospital Bed", "Wheelchair"},
		"Vehicles":               {"SUV", "Pickup Truck", "Ambulance"},
		"Stationery":             {"Printing Paper", "Toner Cartridge"},
		"Construction Materials": {"Cement", "Steel Bars", "Roofing Sheets"},
	}
}

func defaultBasePrices() map[string]float64 {
	return map[string]float64{
		"Laptop":           65000,
		"Desktop Computer": 45000,
		"Printer":          30000,
		"Projector":        55000,
		"Office Chair":     15000,
		"Desk":             25000,
		"Filing Cabinet":   18000,
		"Stethoscope":      3500,
		"Hospital Bed":     120000,
		"Wheelchair":       25000,
		"SUV":              3500000,
		"Pickup Truck":     2800000,
		"Ambulance":        6500000,
		"Printing Paper":   450,
		"Toner Cartridge":  8500,
		"Cement":           750,
		"Steel Bars":       1200,
		"Roofing Sheets":   850,
	}
}
