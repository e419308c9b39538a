package marketd

import (
	"sync"
	"time"

	"github.com/arcmarket/marketd/schema"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron"
	"gorm.io/gorm"
)

type Marketd struct {
	wdb    *Wdb
	store  *Store
	cache  *Cache
	engine *gin.Engine

	scheduler *gocron.Scheduler
	events    *EventManager

	locker       *entityLocker
	settleLocker sync.Mutex
}

func New(
	boltDirPath, mySqlDsn string, sqliteDir string, useSqlite bool,
	owner, feeReceiver string, feeBasisPoints uint16,
	useKafka bool, kafkaUri string,
) *Marketd {
	kvDb, err := NewBoltStore(boltDirPath)
	if err != nil {
		panic(err)
	}

	wdb := &Wdb{}
	if useSqlite {
		wdb = NewSqliteDb(sqliteDir)
	} else {
		wdb = NewMysqlDb(mySqlDsn)
	}
	if err = wdb.Migrate(); err != nil {
		panic(err)
	}

	var kw *KWriter
	if useKafka {
		kw, err = NewKWriter(MarketTopic, kafkaUri)
		if err != nil {
			panic(err)
		}
	}

	s := &Marketd{
		wdb:       wdb,
		store:     kvDb,
		cache:     NewCache(),
		engine:    gin.Default(),
		scheduler: gocron.NewScheduler(time.UTC),
		events:    NewEventManager(kvDb, kw),
		locker:    newEntityLocker(),
	}
	s.initMarketConfig(owner, feeReceiver, feeBasisPoints)
	return s
}

// initMarketConfig seeds the singleton config row on first boot. The operator
// address sellers approve is derived from the owner so it is stable across
// restarts.
func (s *Marketd) initMarketConfig(owner, feeReceiver string, feeBasisPoints uint16) {
	if _, err := s.wdb.GetMarketConfig(); err == nil {
		return
	} else if err != gorm.ErrRecordNotFound {
		panic(err)
	}

	ownerAddr, err := parseAddress(owner)
	if err != nil {
		panic(err)
	}
	recvAddr := ownerAddr
	if feeReceiver != "" {
		recvAddr, err = parseAddress(feeReceiver)
		if err != nil {
			panic(err)
		}
	}
	if feeBasisPoints == 0 {
		feeBasisPoints = schema.DefaultFeeBasisPoints
	}
	if feeBasisPoints > schema.MaxFeeBasisPoints {
		panic(schema.ErrFeeTooHigh)
	}

	h := crypto.Keccak256([]byte("marketd/operator"), common.HexToAddress(ownerAddr).Bytes())
	cfg := schema.MarketplaceConfig{
		Owner:          ownerAddr,
		FeeReceiver:    recvAddr,
		FeeBasisPoints: feeBasisPoints,
		Operator:       common.BytesToAddress(h[12:]).Hex(),
	}
	if err := s.wdb.SaveMarketConfig(s.wdb.Db, cfg); err != nil {
		panic(err)
	}
	log.Info("marketplace config initialized", "owner", ownerAddr, "feeBps", feeBasisPoints)
}

func (s *Marketd) Run(port string) {
	go s.runAPI(port)
	s.runJobs()
}

func (s *Marketd) Close() {
	s.scheduler.Stop()
	s.events.Close()
	s.cache.Close()
	if err := s.store.Close(); err != nil {
		log.Error("close bolt store failed", "err", err)
	}
	s.wdb.Close()
}
