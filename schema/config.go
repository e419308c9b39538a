package schema

// Config is loaded from yaml by the daemon CLI.
type Config struct {
	Mysql     string `yaml:"mysql"`
	SqliteDir string `yaml:"sqliteDir"`
	UseSqlite bool   `yaml:"useSqlite"`
	BoltDir   string `yaml:"boltDir"`
	Port      string `yaml:"port"`

	Owner          string `yaml:"owner"`       // marketplace owner address
	FeeReceiver    string `yaml:"feeReceiver"` // defaults to owner
	FeeBasisPoints uint16 `yaml:"feeBasisPoints"`

	Kafka Kafka `yaml:"kafka"`
}

type Kafka struct {
	Start bool   `yaml:"start"`
	Uri   string `yaml:"uri"`
}
