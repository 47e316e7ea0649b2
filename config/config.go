package config

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"
)

// Config carries the dropd node configuration.
type Config struct {
	ListenAddress string     `toml:"ListenAddress"`
	DataDir       string     `toml:"DataDir"`
	LogFile       string     `toml:"LogFile"`
	Environment   string     `toml:"Environment"`
	Collection    Collection `toml:"Collection"`
}

// Collection carries the issuance parameters for the token collection.
type Collection struct {
	BaseURI              string `toml:"BaseURI"`
	PlaceholderURI       string `toml:"PlaceholderURI"`
	Price                string `toml:"Price"`
	PerTxMintLimit       uint64 `toml:"PerTxMintLimit"`
	PerAddressPresaleCap uint64 `toml:"PerAddressPresaleCap"`
	Reserve              uint64 `toml:"Reserve"`
	MerkleRoot           string `toml:"MerkleRoot"`
	RevealTime           int64  `toml:"RevealTime"`
}

const defaultConfig = `ListenAddress = ":8645"
DataDir = "./dropd-data"
LogFile = ""
Environment = "local"

[Collection]
BaseURI = ""
PlaceholderURI = "ipfs://placeholder"
Price = "0"
PerTxMintLimit = 5
PerAddressPresaleCap = 2
Reserve = 50
MerkleRoot = "0x0000000000000000000000000000000000000000000000000000000000000000"
RevealTime = 0
`

// Load loads the configuration from the given path, creating a default file
// when none exists.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := createDefault(path); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.ListenAddress) == "" {
		cfg.ListenAddress = ":8645"
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		cfg.DataDir = "./dropd-data"
	}
	if err := cfg.Collection.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func createDefault(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(defaultConfig), 0o644)
}

// Validate checks the encoded price and Merkle root.
func (c *Collection) Validate() error {
	if _, err := c.PriceBig(); err != nil {
		return err
	}
	if _, err := c.RootHash(); err != nil {
		return err
	}
	return nil
}

// PriceBig parses the configured unit price.
func (c *Collection) PriceBig() (*big.Int, error) {
	trimmed := strings.TrimSpace(c.Price)
	if trimmed == "" {
		return big.NewInt(0), nil
	}
	value, ok := new(big.Int).SetString(trimmed, 10)
	if !ok || value.Sign() < 0 {
		return nil, fmt.Errorf("config: invalid price %q", c.Price)
	}
	return value, nil
}

// RootHash parses the configured Merkle root.
func (c *Collection) RootHash() ([32]byte, error) {
	trimmed := strings.TrimSpace(c.MerkleRoot)
	if trimmed == "" {
		return [32]byte{}, nil
	}
	if !strings.HasPrefix(trimmed, "0x") || len(trimmed) != 66 {
		return [32]byte{}, fmt.Errorf("config: merkle root must be 0x-prefixed 32-byte hex, got %q", c.MerkleRoot)
	}
	return common.HexToHash(trimmed), nil
}
