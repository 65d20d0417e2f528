package service

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/azertyfreak/makelaar-contract-generator/config"
	"github.com/azertyfreak/makelaar-contract-generator/model"
	"github.com/google/uuid"
)

// ContractStore is an injected in-memory key/value store of contract
// aggregates. A single lock serializes mutations, so concurrent uploads
// or edits to the same contract never interleave a partial merge;
// between mutations last write wins. In production this should be
// replaced with a database behind the same methods.
type ContractStore struct {
	mu           sync.RWMutex
	contracts    map[string]*model.Contract
	maxContracts int  // Maximum contracts to keep, 0 = unlimited
	strict       bool // Clear cached validation on every mutation
}

// NewContractStore creates a store with the configured contract cap and
// revalidation mode.
func NewContractStore(cfg *config.StoreConfig, strictRevalidate bool) *ContractStore {
	maxContracts := cfg.MaxContracts
	if maxContracts < 0 {
		maxContracts = 0
	}
	slog.Info("contract store initialized",
		"max_contracts", maxContracts,
		"strict_revalidate", strictRevalidate,
	)
	return &ContractStore{
		contracts:    make(map[string]*model.Contract),
		maxContracts: maxContracts,
		strict:       strictRevalidate,
	}
}

// Create adds a new empty draft contract and returns a snapshot of it.
func (s *ContractStore) Create() *model.Contract {
	s.mu.Lock()
	defer s.mu.Unlock()

	contract := model.NewContract(uuid.New().String())
	s.contracts[contract.ID] = contract
	s.cleanupIfNeeded()

	return contract.Clone()
}

// Get returns a deep-copied snapshot of the contract's current state.
func (s *ContractStore) Get(id string) (*model.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	contract, ok := s.contracts[id]
	if !ok {
		return nil, model.ErrContractNotFound
	}
	return contract.Clone(), nil
}

// AttachDocument replaces the record for the document's type and merges
// its extracted data into the contract's form data.
func (s *ContractStore) AttachDocument(id string, rec *model.DocumentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	contract, ok := s.contracts[id]
	if !ok {
		return model.ErrContractNotFound
	}
	if err := contract.AttachDocument(rec); err != nil {
		return err
	}
	s.afterMutation(contract)
	return nil
}

// UpdateFields merges direct field edits into the contract's form data.
func (s *ContractStore) UpdateFields(id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	contract, ok := s.contracts[id]
	if !ok {
		return model.ErrContractNotFound
	}
	if err := contract.MergeFields(fields); err != nil {
		return err
	}
	s.afterMutation(contract)
	return nil
}

// SetValidation stores a freshly computed validation snapshot. A valid
// run promotes a draft to validated; the status never moves backwards.
func (s *ContractStore) SetValidation(id string, result *model.ValidationResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	contract, ok := s.contracts[id]
	if !ok {
		return model.ErrContractNotFound
	}
	contract.Validation = result
	if result.IsValid && contract.Status == model.StatusDraft {
		contract.Status = model.StatusValidated
	}
	contract.UpdatedAt = time.Now()
	return nil
}

// MarkGenerated records a successful generation run. The previous
// artifact reference, if any, is overwritten.
func (s *ContractStore) MarkGenerated(id, outputFile string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	contract, ok := s.contracts[id]
	if !ok {
		return model.ErrContractNotFound
	}
	now := time.Now()
	contract.Status = model.StatusGenerated
	contract.GeneratedAt = &now
	contract.OutputFile = outputFile
	contract.UpdatedAt = now
	return nil
}

// List returns snapshots of all contracts, newest created first.
func (s *ContractStore) List() []*model.Contract {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*model.Contract, 0, len(s.contracts))
	for _, c := range s.contracts {
		result = append(result, c.Clone())
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

// Delete removes a contract from the store.
func (s *ContractStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.contracts, id)
}

// Count returns the number of contracts in the store.
func (s *ContractStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.contracts)
}

// afterMutation applies the strict-revalidation policy. Must be called
// with the lock held.
func (s *ContractStore) afterMutation(contract *model.Contract) {
	if s.strict && contract.Validation != nil {
		contract.Validation = nil
	}
}

// cleanupIfNeeded removes oldest contracts if store exceeds maxContracts.
// Must be called with the lock held.
func (s *ContractStore) cleanupIfNeeded() {
	if s.maxContracts <= 0 {
		return // Unlimited
	}

	if len(s.contracts) <= s.maxContracts {
		return
	}

	contracts := make([]*model.Contract, 0, len(s.contracts))
	for _, c := range s.contracts {
		contracts = append(contracts, c)
	}
	sort.Slice(contracts, func(i, j int) bool {
		return contracts[i].CreatedAt.Before(contracts[j].CreatedAt)
	})

	removeCount := len(contracts) - s.maxContracts
	for i := 0; i < removeCount; i++ {
		slog.Info("auto-cleaning old contract",
			"contract_id", contracts[i].ID,
			"created_at", contracts[i].CreatedAt,
		)
		delete(s.contracts, contracts[i].ID)
	}
}
