package marketd

import (
	"fmt"
	"math/big"
	"time"

	"github.com/arcmarket/marketd/schema"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// The payment ledger keeps native currency balances per address. Every value
// movement happens inside the same gorm transaction as the operation that
// caused it and writes a FundTransfer receipt. All balance mutations are
// serialized under settleLocker.

func (s *Marketd) Deposit(addr, amount string) error {
	amt, err := parseAmount(amount)
	if err != nil {
		return err
	}
	if amt.Sign() <= 0 {
		return schema.ErrInvalidAmount
	}

	s.settleLocker.Lock()
	defer s.settleLocker.Unlock()

	return s.wdb.Db.Transaction(func(tx *gorm.DB) error {
		if err := s.creditTx(tx, addr, amt); err != nil {
			return err
		}
		return s.receiptTx(tx, zeroAddr, addr, amt, schema.TransferDeposit, "")
	})
}

func (s *Marketd) WithdrawFunds(addr, amount string) error {
	amt, err := parseAmount(amount)
	if err != nil {
		return err
	}
	if amt.Sign() <= 0 {
		return schema.ErrInvalidAmount
	}

	s.settleLocker.Lock()
	defer s.settleLocker.Unlock()

	return s.wdb.Db.Transaction(func(tx *gorm.DB) error {
		if err := s.debitTx(tx, addr, amt); err != nil {
			return err
		}
		return s.receiptTx(tx, addr, zeroAddr, amt, schema.TransferWithdraw, "")
	})
}

func (s *Marketd) GetBalance(addr string) (string, error) {
	acct, err := s.wdb.GetAccount(addr)
	if err != nil {
		return "", err
	}
	return acct.Balance, nil
}

func (s *Marketd) GetFundTransfers(addr string, num int) ([]schema.FundTransfer, error) {
	return s.wdb.GetFundTransfers(addr, num)
}

func (s *Marketd) creditTx(tx *gorm.DB, addr string, amt *big.Int) error {
	acct, err := s.wdb.GetAccountTx(tx, addr)
	if err != nil {
		return err
	}
	bal := mustAmount(acct.Balance)
	acct.Balance = new(big.Int).Add(bal, amt).String()
	acct.UpdatedAt = time.Now()
	return s.wdb.SaveAccount(tx, acct)
}

func (s *Marketd) debitTx(tx *gorm.DB, addr string, amt *big.Int) error {
	acct, err := s.wdb.GetAccountTx(tx, addr)
	if err != nil {
		return err
	}
	bal := mustAmount(acct.Balance)
	if bal.Cmp(amt) < 0 {
		return fmt.Errorf("%w: balance %s, need %s", schema.ErrInsufficientPayment, bal, amt)
	}
	acct.Balance = new(big.Int).Sub(bal, amt).String()
	acct.UpdatedAt = time.Now()
	return s.wdb.SaveAccount(tx, acct)
}

// settleTx moves amt between two accounts and writes the receipt.
func (s *Marketd) settleTx(tx *gorm.DB, from, to string, amt *big.Int, kind, ref string) error {
	if amt.Sign() == 0 {
		return nil
	}
	if err := s.debitTx(tx, from, amt); err != nil {
		return err
	}
	if err := s.creditTx(tx, to, amt); err != nil {
		return err
	}
	return s.receiptTx(tx, from, to, amt, kind, ref)
}

func (s *Marketd) receiptTx(tx *gorm.DB, from, to string, amt *big.Int, kind, ref string) error {
	ft := &schema.FundTransfer{
		ID:     uuid.NewString(),
		From:   from,
		To:     to,
		Amount: amt.String(),
		Kind:   kind,
		Ref:    ref,
	}
	return s.wdb.InsertFundTransfer(tx, ft)
}
