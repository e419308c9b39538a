package marketd

import (
	"os"
	"path"
	"time"

	"github.com/arcmarket/marketd/schema"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const sqliteName = "market.sqlite"

type Wdb struct {
	Db *gorm.DB
}

func NewMysqlDb(dsn string) *Wdb {
	logLevel := logger.Error
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:          logger.Default.LogMode(logLevel),
		CreateBatchSize: 200,
	})
	if err != nil {
		panic(err)
	}
	log.Info("connect mysql db success")
	return &Wdb{Db: db}
}

func NewSqliteDb(dbDir string) *Wdb {
	if err := os.MkdirAll(dbDir, os.ModePerm); err != nil {
		panic(err)
	}
	db, err := gorm.Open(sqlite.Open(path.Join(dbDir, sqliteName)), &gorm.Config{
		Logger:          logger.Default.LogMode(logger.Error),
		CreateBatchSize: 200,
	})
	if err != nil {
		panic(err)
	}
	log.Info("connect sqlite db success")
	return &Wdb{Db: db}
}

func (w *Wdb) Migrate() error {
	return w.Db.AutoMigrate(
		&schema.MarketplaceConfig{},
		&schema.Listing{},
		&schema.Account{},
		&schema.FundTransfer{},
		&schema.TokenRegistry{},
		&schema.Token{},
		&schema.Approval{},
		&schema.Collection{},
		&schema.PoolURI{},
		&schema.WhitelistEntry{},
		&schema.MintCount{},
		&schema.MarketStatistic{},
	)
}

func (w *Wdb) Close() {
	sql, err := w.Db.DB()
	if err == nil {
		sql.Close()
	}
}

// marketplace config, singleton row

func (w *Wdb) GetMarketConfig() (schema.MarketplaceConfig, error) {
	res := schema.MarketplaceConfig{}
	err := w.Db.First(&res, 1).Error
	return res, err
}

func (w *Wdb) SaveMarketConfig(tx *gorm.DB, cfg schema.MarketplaceConfig) error {
	cfg.ID = 1
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&cfg).Error
}

// listings

func (w *Wdb) InsertListing(tx *gorm.DB, l *schema.Listing) error {
	return tx.Create(l).Error
}

func (w *Wdb) GetListing(id uint64) (schema.Listing, error) {
	return w.GetListingTx(w.Db, id)
}

func (w *Wdb) GetListingTx(tx *gorm.DB, id uint64) (schema.Listing, error) {
	res := schema.Listing{}
	err := tx.First(&res, id).Error
	if err == gorm.ErrRecordNotFound {
		return res, schema.ErrListingNotFound
	}
	return res, err
}

func (w *Wdb) UpdateListing(tx *gorm.DB, l *schema.Listing) error {
	return tx.Save(l).Error
}

// GetListings pages by cursor over listing id, newest first. activeOnly
// filters sold and cancelled rows out.
func (w *Wdb) GetListings(cursorId uint64, num int, activeOnly bool) ([]schema.Listing, error) {
	res := make([]schema.Listing, 0, num)
	db := w.Db.Model(&schema.Listing{})
	if cursorId > 0 {
		db = db.Where("id < ?", cursorId)
	}
	if activeOnly {
		db = db.Where("active = ?", true)
	}
	err := db.Order("id desc").Limit(num).Find(&res).Error
	return res, err
}

func (w *Wdb) GetSellerListings(seller string, cursorId uint64, num int) ([]schema.Listing, error) {
	res := make([]schema.Listing, 0, num)
	db := w.Db.Model(&schema.Listing{}).Where("seller = ?", seller)
	if cursorId > 0 {
		db = db.Where("id < ?", cursorId)
	}
	err := db.Order("id desc").Limit(num).Find(&res).Error
	return res, err
}

func (w *Wdb) GetActiveListings() ([]schema.Listing, error) {
	res := make([]schema.Listing, 0)
	err := w.Db.Where("active = ?", true).Find(&res).Error
	return res, err
}

func (w *Wdb) CountActiveListings() (int64, error) {
	var n int64
	err := w.Db.Model(&schema.Listing{}).Where("active = ?", true).Count(&n).Error
	return n, err
}

func (w *Wdb) GetListingsCreatedBetween(start, end time.Time) ([]schema.Listing, error) {
	res := make([]schema.Listing, 0)
	err := w.Db.Where("created_at >= ? and created_at < ?", start, end).Find(&res).Error
	return res, err
}

func (w *Wdb) GetListingsSoldBetween(start, end time.Time) ([]schema.Listing, error) {
	res := make([]schema.Listing, 0)
	err := w.Db.Where("status = ? and updated_at >= ? and updated_at < ?",
		schema.ListingSold, start, end).Find(&res).Error
	return res, err
}

// accounts

func (w *Wdb) GetAccountTx(tx *gorm.DB, addr string) (schema.Account, error) {
	res := schema.Account{}
	err := tx.First(&res, "address = ?", addr).Error
	if err == gorm.ErrRecordNotFound {
		return schema.Account{Address: addr, Balance: "0"}, nil
	}
	return res, err
}

func (w *Wdb) GetAccount(addr string) (schema.Account, error) {
	return w.GetAccountTx(w.Db, addr)
}

func (w *Wdb) SaveAccount(tx *gorm.DB, acct schema.Account) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}},
		UpdateAll: true,
	}).Create(&acct).Error
}

func (w *Wdb) InsertFundTransfer(tx *gorm.DB, ft *schema.FundTransfer) error {
	return tx.Create(ft).Error
}

func (w *Wdb) GetFundTransfers(addr string, num int) ([]schema.FundTransfer, error) {
	res := make([]schema.FundTransfer, 0, num)
	err := w.Db.Where("`from` = ? or `to` = ?", addr, addr).
		Order("created_at desc").Limit(num).Find(&res).Error
	return res, err
}

// token registries

func (w *Wdb) InsertRegistry(tx *gorm.DB, r *schema.TokenRegistry) error {
	return tx.Create(r).Error
}

func (w *Wdb) GetRegistryTx(tx *gorm.DB, addr string) (schema.TokenRegistry, error) {
	res := schema.TokenRegistry{}
	err := tx.First(&res, "address = ?", addr).Error
	if err == gorm.ErrRecordNotFound {
		return res, schema.ErrNotFound
	}
	return res, err
}

func (w *Wdb) UpdateRegistry(tx *gorm.DB, r *schema.TokenRegistry) error {
	return tx.Save(r).Error
}

func (w *Wdb) ExistRegistry(addr string) bool {
	_, err := w.GetRegistryTx(w.Db, addr)
	return err == nil
}

func (w *Wdb) InsertToken(tx *gorm.DB, t *schema.Token) error {
	return tx.Create(t).Error
}

func (w *Wdb) GetToken(registry string, tokenId uint64) (schema.Token, error) {
	return w.GetTokenTx(w.Db, registry, tokenId)
}

func (w *Wdb) GetTokenTx(tx *gorm.DB, registry string, tokenId uint64) (schema.Token, error) {
	res := schema.Token{}
	err := tx.First(&res, "registry = ? and token_id = ?", registry, tokenId).Error
	if err == gorm.ErrRecordNotFound {
		return res, schema.ErrTokenNotFound
	}
	return res, err
}

func (w *Wdb) UpdateTokenOwner(tx *gorm.DB, registry string, tokenId uint64, owner string) error {
	return tx.Model(&schema.Token{}).
		Where("registry = ? and token_id = ?", registry, tokenId).
		Update("owner", owner).Error
}

func (w *Wdb) GetOwnerTokens(registry, owner string) ([]schema.Token, error) {
	res := make([]schema.Token, 0)
	err := w.Db.Where("registry = ? and owner = ?", registry, owner).Find(&res).Error
	return res, err
}

func (w *Wdb) GetTokensMintedBetween(start, end time.Time) ([]schema.Token, error) {
	res := make([]schema.Token, 0)
	err := w.Db.Where("minted_at >= ? and minted_at < ?", start, end).Find(&res).Error
	return res, err
}

func (w *Wdb) UpsertApproval(tx *gorm.DB, ap schema.Approval) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "registry"}, {Name: "owner"}, {Name: "operator"}},
		UpdateAll: true,
	}).Create(&ap).Error
}

func (w *Wdb) GetApprovalTx(tx *gorm.DB, registry, owner, operator string) (schema.Approval, error) {
	res := schema.Approval{}
	err := tx.First(&res, "registry = ? and owner = ? and operator = ?",
		registry, owner, operator).Error
	if err == gorm.ErrRecordNotFound {
		return schema.Approval{Registry: registry, Owner: owner, Operator: operator}, nil
	}
	return res, err
}

// collections

func (w *Wdb) InsertCollection(tx *gorm.DB, c *schema.Collection) error {
	return tx.Create(c).Error
}

func (w *Wdb) GetCollection(addr string) (schema.Collection, error) {
	return w.GetCollectionTx(w.Db, addr)
}

func (w *Wdb) GetCollectionTx(tx *gorm.DB, addr string) (schema.Collection, error) {
	res := schema.Collection{}
	err := tx.First(&res, "address = ?", addr).Error
	if err == gorm.ErrRecordNotFound {
		return res, schema.ErrNotFound
	}
	return res, err
}

func (w *Wdb) UpdateCollection(tx *gorm.DB, c *schema.Collection) error {
	return tx.Save(c).Error
}

func (w *Wdb) ExistCollection(addr string) bool {
	_, err := w.GetCollection(addr)
	return err == nil
}

func (w *Wdb) GetAllCollections() ([]schema.Collection, error) {
	res := make([]schema.Collection, 0)
	err := w.Db.Order("created_at asc").Find(&res).Error
	return res, err
}

func (w *Wdb) GetCreatorCollections(creator string) ([]schema.Collection, error) {
	res := make([]schema.Collection, 0)
	err := w.Db.Where("creator = ?", creator).Order("created_at asc").Find(&res).Error
	return res, err
}

// uri pool, consumed FIFO by row id

func (w *Wdb) InsertPoolURIs(tx *gorm.DB, uris []schema.PoolURI) error {
	return tx.Create(&uris).Error
}

func (w *Wdb) NextPoolURIs(tx *gorm.DB, collection string, num int) ([]schema.PoolURI, error) {
	res := make([]schema.PoolURI, 0, num)
	err := tx.Where("collection = ? and assigned = ?", collection, false).
		Order("id asc").Limit(num).Find(&res).Error
	return res, err
}

func (w *Wdb) AssignPoolURI(tx *gorm.DB, id uint64, tokenId uint64) error {
	return tx.Model(&schema.PoolURI{}).Where("id = ?", id).
		Updates(map[string]interface{}{"assigned": true, "token_id": tokenId}).Error
}

func (w *Wdb) CountUnassignedURIs(collection string) (int64, error) {
	var n int64
	err := w.Db.Model(&schema.PoolURI{}).
		Where("collection = ? and assigned = ?", collection, false).Count(&n).Error
	return n, err
}

// whitelist, adds are idempotent

func (w *Wdb) UpsertWhitelist(tx *gorm.DB, entries []schema.WhitelistEntry) error {
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&entries).Error
}

func (w *Wdb) IsWhitelisted(db *gorm.DB, collection, addr string) (bool, error) {
	var n int64
	err := db.Model(&schema.WhitelistEntry{}).
		Where("collection = ? and address = ?", collection, addr).Count(&n).Error
	return n > 0, err
}

// per wallet mint counters

func (w *Wdb) GetMintCountTx(tx *gorm.DB, collection, addr string) (schema.MintCount, error) {
	res := schema.MintCount{}
	err := tx.First(&res, "collection = ? and address = ?", collection, addr).Error
	if err == gorm.ErrRecordNotFound {
		return schema.MintCount{Collection: collection, Address: addr}, nil
	}
	return res, err
}

func (w *Wdb) SaveMintCount(tx *gorm.DB, mc schema.MintCount) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection"}, {Name: "address"}},
		UpdateAll: true,
	}).Create(&mc).Error
}

// statistics

func (w *Wdb) SaveStatistic(st schema.MarketStatistic) error {
	old := schema.MarketStatistic{}
	err := w.Db.First(&old, "date = ?", st.Date).Error
	if err == gorm.ErrRecordNotFound {
		return w.Db.Create(&st).Error
	}
	if err != nil {
		return err
	}
	st.ID = old.ID
	return w.Db.Save(&st).Error
}

func (w *Wdb) GetStatistics(start, end time.Time) ([]schema.MarketStatistic, error) {
	res := make([]schema.MarketStatistic, 0)
	err := w.Db.Where("date >= ? and date < ?", start, end).Order("date asc").Find(&res).Error
	return res, err
}
