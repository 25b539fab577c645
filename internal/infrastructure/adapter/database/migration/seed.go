package migration

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	errs "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	coreport "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/persistence"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// SeedData is the reference data loaded at startup
type SeedData struct {
	Networks   []NetworkSeed  `yaml:"networks"`
	Tokens     []TokenSeed    `yaml:"tokens"`
	Categories []CategorySeed `yaml:"categories"`
}

type NetworkSeed struct {
	ChainID        int64  `yaml:"chain_id"`
	Name           string `yaml:"name"`
	NativeCurrency string `yaml:"native_currency"`
	RPCURL         string `yaml:"rpc_url"`
	ExplorerURL    string `yaml:"explorer_url"`
	IsTestnet      bool   `yaml:"testnet"`
	Inactive       bool   `yaml:"inactive"`
}

type TokenSeed struct {
	ChainID  int64  `yaml:"chain_id"`
	Address  string `yaml:"address"`
	Symbol   string `yaml:"symbol"`
	Name     string `yaml:"name"`
	Decimals int    `yaml:"decimals"`
	Type     string `yaml:"type"`
}

type CategorySeed struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Icon        string `yaml:"icon"`
	Color       string `yaml:"color"`
}

// LoadSeedFile reads and parses a seed file
func LoadSeedFile(path string) (*SeedData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(raw)
}

// ParseSeed parses seed YAML and checks that every token points at a seeded
// network
func ParseSeed(raw []byte) (*SeedData, error) {
	var data SeedData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	chains := make(map[int64]bool, len(data.Networks))
	for _, n := range data.Networks {
		if n.ChainID <= 0 || n.Name == "" || n.NativeCurrency == "" {
			return nil, fmt.Errorf("seed network %d: chain_id, name and native_currency are required", n.ChainID)
		}
		chains[n.ChainID] = true
	}
	for _, t := range data.Tokens {
		if !chains[t.ChainID] {
			return nil, fmt.Errorf("seed token %s: unknown chain %d", t.Symbol, t.ChainID)
		}
		if !entity.TokenType(strings.ToLower(t.Type)).IsValid() {
			return nil, fmt.Errorf("seed token %s: unsupported type %q", t.Symbol, t.Type)
		}
	}
	return &data, nil
}

// Seeder writes seed data through the repositories. Running it twice leaves
// the same rows behind.
type Seeder struct {
	uow          persistence.UnitOfWork
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
}

// NewSeeder creates a new Seeder
func NewSeeder(uow persistence.UnitOfWork, logger coreport.Logger, timeProvider coreport.TimeProvider) *Seeder {
	return &Seeder{uow: uow, logger: logger, timeProvider: timeProvider}
}

// Apply upserts networks and tokens, then creates the missing categories
func (s *Seeder) Apply(ctx context.Context, data *SeedData) error {
	err := s.uow.Execute(ctx, func(txCtx context.Context) error {
		networks := s.uow.GetNetworkRepository(txCtx)
		for _, n := range data.Networks {
			err := networks.Upsert(txCtx, &entity.SupportedNetwork{
				ChainID:        n.ChainID,
				Name:           n.Name,
				NativeCurrency: n.NativeCurrency,
				RPCURL:         n.RPCURL,
				ExplorerURL:    n.ExplorerURL,
				IsTestnet:      n.IsTestnet,
				IsActive:       !n.Inactive,
			})
			if err != nil {
				return fmt.Errorf("seed network %d: %w", n.ChainID, err)
			}
		}

		tokens := s.uow.GetTokenRepository(txCtx)
		for _, t := range data.Tokens {
			err := tokens.Upsert(txCtx, &entity.TokenContract{
				ID:              uuid.New(),
				ChainID:         t.ChainID,
				ContractAddress: t.Address,
				Symbol:          t.Symbol,
				Name:            t.Name,
				Decimals:        t.Decimals,
				TokenType:       entity.TokenType(strings.ToLower(t.Type)),
				IsActive:        true,
			})
			if err != nil {
				return fmt.Errorf("seed token %s: %w", t.Symbol, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	created := 0
	for _, c := range data.Categories {
		category, err := entity.NewTransactionCategory(c.Name, c.Description, c.Icon, c.Color, nil, s.timeProvider.Now())
		if err != nil {
			return fmt.Errorf("seed category %s: %w", c.Name, err)
		}
		// one unit per category so an existing name only skips that row
		err = s.uow.Execute(ctx, func(txCtx context.Context) error {
			return s.uow.GetCategoryRepository(txCtx).Create(txCtx, category)
		})
		switch {
		case errors.Is(err, errs.ErrDuplicate):
		case err != nil:
			return fmt.Errorf("seed category %s: %w", c.Name, err)
		default:
			created++
		}
	}

	s.logger.Info("Seed data applied", map[string]any{
		"networks":           len(data.Networks),
		"tokens":             len(data.Tokens),
		"categories_created": created,
	})
	return nil
}
