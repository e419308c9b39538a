package marketd

import (
	"github.com/arcmarket/marketd/schema"
	"gorm.io/gorm"
)

// CreateCollection instantiates a new collection engine: a fresh address, its
// own token registry, minting disabled until the creator configures it.
func (s *Marketd) CreateCollection(creator, name string, maxSupply uint32) (string, error) {
	if maxSupply == 0 {
		return "", schema.ErrInvalidSupply
	}
	ca, err := parseAddress(creator)
	if err != nil {
		return "", err
	}

	addr := deriveAddress(ca)
	err = s.wdb.Db.Transaction(func(tx *gorm.DB) error {
		if err := s.wdb.InsertRegistry(tx, &schema.TokenRegistry{
			Address: addr,
			Name:    name,
		}); err != nil {
			return err
		}
		return s.wdb.InsertCollection(tx, &schema.Collection{
			Address:           addr,
			Name:              name,
			Creator:           ca,
			MaxSupply:         maxSupply,
			MintPrice:         "0",
			MintingEnabled:    false,
			PublicMintEnabled: false,
			WhitelistEnabled:  false,
			RoyaltyReceiver:   ca,
			TotalEarnings:     "0",
			WithdrawnEarnings: "0",
		})
	})
	if err != nil {
		log.Error("create collection failed", "err", err, "creator", ca)
		return "", err
	}

	s.events.Publish(schema.EventCollectionCreated, map[string]interface{}{
		"collection": addr,
		"creator":    ca,
		"name":       name,
		"maxSupply":  maxSupply,
	})
	metricCollectionsCreated.Inc()
	return addr, nil
}

func (s *Marketd) IsValidCollection(addr string) bool {
	return s.wdb.ExistCollection(addr)
}

func (s *Marketd) GetAllCollections() ([]schema.Collection, error) {
	return s.wdb.GetAllCollections()
}

func (s *Marketd) GetCreatorCollections(creator string) ([]schema.Collection, error) {
	return s.wdb.GetCreatorCollections(creator)
}
