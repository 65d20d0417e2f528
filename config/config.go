package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Minio      MinioConfig      `yaml:"minio"`
	OCR        OCRConfig        `yaml:"ocr"`
	Validation ValidationConfig `yaml:"validation"`
	Store      StoreConfig      `yaml:"store"`
	Log        LogConfig        `yaml:"log"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

// StorageConfig controls where uploaded documents and generated
// contracts live. Backend selects the FileStore implementation for
// uploads; generated contracts are always written to ContractsDir.
type StorageConfig struct {
	Backend        string `yaml:"backend"` // local, minio
	UploadsDir     string `yaml:"uploads_dir"`
	ContractsDir   string `yaml:"contracts_dir"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
}

type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// OCRConfig selects the text-extraction collaborator. Mock extraction
// produces placeholder text; remote posts the file to an OCR service.
type OCRConfig struct {
	Mode     string `yaml:"mode"` // mock, remote
	APIURL   string `yaml:"api_url"`
	APIToken string `yaml:"api_token"`
}

// ValidationConfig tunes the validation workflow. StrictRevalidate
// clears the cached validation result on every mutation, closing the
// stale-approval window at the cost of forcing clients to re-validate.
type ValidationConfig struct {
	StrictRevalidate bool `yaml:"strict_revalidate"`
}

type StoreConfig struct {
	MaxContracts int `yaml:"max_contracts"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "local"
	}
	if cfg.Storage.UploadsDir == "" {
		cfg.Storage.UploadsDir = "uploads"
	}
	if cfg.Storage.ContractsDir == "" {
		cfg.Storage.ContractsDir = "generated_contracts"
	}
	if cfg.Storage.MaxUploadBytes == 0 {
		cfg.Storage.MaxUploadBytes = 16 * 1024 * 1024
	}
	if cfg.OCR.Mode == "" {
		cfg.OCR.Mode = "mock"
	}

	return &cfg, nil
}
