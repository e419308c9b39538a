package marketd

import (
	"time"

	"github.com/arcmarket/marketd/schema"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// deriveAddress generates a fresh contract style address, keccak of the
// creator address and a random nonce, last 20 bytes.
func deriveAddress(creator string) string {
	nonce := uuid.New()
	h := crypto.Keccak256(common.HexToAddress(creator).Bytes(), nonce[:])
	return common.BytesToAddress(h[12:]).Hex()
}

// CreateRegistry deploys a standalone token registry, the equivalent of an
// external NFT contract the marketplace can trade.
func (s *Marketd) CreateRegistry(creator, name string) (string, error) {
	addr := deriveAddress(creator)
	reg := &schema.TokenRegistry{
		Address:     addr,
		Name:        name,
		NextTokenId: 0,
	}
	if err := s.wdb.InsertRegistry(s.wdb.Db, reg); err != nil {
		log.Error("s.wdb.InsertRegistry(reg)", "err", err, "creator", creator)
		return "", err
	}
	return addr, nil
}

func (s *Marketd) OwnerOf(registry string, tokenId uint64) (string, error) {
	tk, err := s.wdb.GetToken(registry, tokenId)
	if err != nil {
		return "", err
	}
	return tk.Owner, nil
}

func (s *Marketd) GetToken(registry string, tokenId uint64) (schema.Token, error) {
	return s.wdb.GetToken(registry, tokenId)
}

func (s *Marketd) GetOwnerTokens(registry, owner string) ([]schema.Token, error) {
	return s.wdb.GetOwnerTokens(registry, owner)
}

// MintToken mints directly on a registry, bypassing any collection engine.
// Collections mint through mintTokenTx inside their own transaction.
func (s *Marketd) MintToken(registry, to, uri string) (uint64, error) {
	unlock := s.locker.acquire(registryKey(registry))
	defer unlock()

	var tokenId uint64
	err := s.wdb.Db.Transaction(func(tx *gorm.DB) error {
		var err error
		tokenId, err = s.mintTokenTx(tx, registry, to, uri)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.events.Publish(schema.EventTransfer, schema.TransferEventPayload{
		Registry: registry,
		TokenId:  tokenId,
		From:     zeroAddr,
		To:       to,
	})
	return tokenId, nil
}

func (s *Marketd) SetApprovalForAll(registry, owner, operator string, approved bool) error {
	if !s.wdb.ExistRegistry(registry) {
		return schema.ErrNotFound
	}
	ap := schema.Approval{
		Registry: registry,
		Owner:    owner,
		Operator: operator,
		Approved: approved,
	}
	if err := s.wdb.UpsertApproval(s.wdb.Db, ap); err != nil {
		log.Error("s.wdb.UpsertApproval(ap)", "err", err, "owner", owner, "operator", operator)
		return err
	}
	s.events.Publish(schema.EventApprovalForAll, ap)
	return nil
}

func (s *Marketd) IsApprovedForAll(registry, owner, operator string) (bool, error) {
	ap, err := s.wdb.GetApprovalTx(s.wdb.Db, registry, owner, operator)
	if err != nil {
		return false, err
	}
	return ap.Approved, nil
}

// mintTokenTx assigns the next monotonic token id of the registry and creates
// the token row. Runs inside the caller's transaction.
func (s *Marketd) mintTokenTx(tx *gorm.DB, registry, to, uri string) (uint64, error) {
	reg, err := s.wdb.GetRegistryTx(tx, registry)
	if err != nil {
		return 0, err
	}
	tokenId := reg.NextTokenId
	reg.NextTokenId++
	if err := s.wdb.UpdateRegistry(tx, &reg); err != nil {
		return 0, err
	}
	token := &schema.Token{
		Registry: registry,
		TokenId:  tokenId,
		Owner:    to,
		URI:      uri,
		MintedAt: time.Now(),
	}
	if err := s.wdb.InsertToken(tx, token); err != nil {
		return 0, err
	}
	return tokenId, nil
}

// transferTokenTx moves a token on behalf of operator. The operator must be
// the owner or hold approval-for-all from the owner, and from must still own
// the token, otherwise the transfer is rejected with ErrTransferNotAuthorized.
func (s *Marketd) transferTokenTx(tx *gorm.DB, registry, from, to string, tokenId uint64, operator string) error {
	tk, err := s.wdb.GetTokenTx(tx, registry, tokenId)
	if err != nil {
		return err
	}
	if tk.Owner != from {
		return schema.ErrTransferNotAuthorized
	}
	if operator != from {
		ap, err := s.wdb.GetApprovalTx(tx, registry, from, operator)
		if err != nil {
			return err
		}
		if !ap.Approved {
			return schema.ErrTransferNotAuthorized
		}
	}
	return s.wdb.UpdateTokenOwner(tx, registry, tokenId, to)
}

// Transfer is the registry level transfer op, caller acts as operator.
func (s *Marketd) Transfer(registry, caller, from, to string, tokenId uint64) error {
	unlock := s.locker.acquire(registryKey(registry))
	defer unlock()

	err := s.wdb.Db.Transaction(func(tx *gorm.DB) error {
		return s.transferTokenTx(tx, registry, from, to, tokenId, caller)
	})
	if err != nil {
		return err
	}

	s.events.Publish(schema.EventTransfer, schema.TransferEventPayload{
		Registry: registry,
		TokenId:  tokenId,
		From:     from,
		To:       to,
	})
	return nil
}
