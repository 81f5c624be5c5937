package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"
	"github.com/tdex-network/royalty-ledger/internal/core/application"
	"github.com/tdex-network/royalty-ledger/internal/core/domain"
)

const (
	// DatadirKey is the local data directory where the ledger db and the
	// vault snapshot are stored
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// DBTypeKey is used to switch database type between those supported
	DBTypeKey = "DB_TYPE"
	// PlatformFeeRateKey is the platform fee rate in basis points used until
	// one is set explicitly
	PlatformFeeRateKey = "PLATFORM_FEE_RATE"
	// RegistryFileKey is the path of the file listing the royalty info of
	// assets and collections
	RegistryFileKey = "REGISTRY_FILE"
	// CustodyAddressKey is the account holding the tokens in custody
	CustodyAddressKey = "CUSTODY_ADDRESS"
	// AdminAddressesKey is the comma separated list of callers allowed to
	// run every operation
	AdminAddressesKey = "ADMIN_ADDRESSES"
	// ManagerAddressesKey is the comma separated list of callers allowed to
	// move funds but not to change the fee rate or the supported tokens
	ManagerAddressesKey = "MANAGER_ADDRESSES"
	// TokenDecimalsKey is the number of decimals used to parse and format
	// token amounts
	TokenDecimalsKey = "TOKEN_DECIMALS"
	// BreakerMaxFailuresKey is the number of consecutive transfer failures
	// after which the treasury circuit breaker opens
	BreakerMaxFailuresKey = "BREAKER_MAX_FAILURES"
	// BreakerFailingRatioKey is the ratio of failed transfers after which
	// the treasury circuit breaker opens
	BreakerFailingRatioKey = "BREAKER_FAILING_RATIO"
	// EnableStatsKey dumps the collected metrics when a command completes
	EnableStatsKey = "ENABLE_STATS"

	DbLocation    = "db"
	VaultFile     = "vault.json"
	StatsLocation = "stats"
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("royalty-ledger", false)

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("ROYALTY")
	vip.AutomaticEnv()

	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(DBTypeKey, application.DBBadger)
	vip.SetDefault(PlatformFeeRateKey, 30)
	vip.SetDefault(TokenDecimalsKey, domain.DefaultTokenDecimals)
	vip.SetDefault(BreakerMaxFailuresKey, 0)
	vip.SetDefault(BreakerFailingRatioKey, 0)
	vip.SetDefault(EnableStatsKey, false)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetUint32(key string) uint32 {
	return vip.GetUint32(key)
}

func GetFloat(key string) float64 {
	return vip.GetFloat64(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

func GetDbDir() string {
	return filepath.Join(GetDatadir(), DbLocation)
}

func GetVaultPath() string {
	return filepath.Join(GetDatadir(), VaultFile)
}

func GetCustodyAddress() common.Address {
	return common.HexToAddress(GetString(CustodyAddressKey))
}

func GetAdminAddresses() []common.Address {
	addresses, _ := parseAddresses(GetString(AdminAddressesKey))
	return addresses
}

func GetManagerAddresses() []common.Address {
	addresses, _ := parseAddresses(GetString(ManagerAddressesKey))
	return addresses
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	dbType := GetString(DBTypeKey)
	if _, ok := application.SupportedDBType[dbType]; !ok {
		return fmt.Errorf("%w: %s", application.ErrUnknownDBType, dbType)
	}

	if rate := GetInt(PlatformFeeRateKey); rate < 0 || rate > domain.BasisPoints {
		return fmt.Errorf(
			"%s must be in range [0, %d]", PlatformFeeRateKey, domain.BasisPoints,
		)
	}

	if decimals := GetInt(TokenDecimalsKey); decimals < 0 || decimals > 77 {
		return fmt.Errorf("%s must be in range [0, 77]", TokenDecimalsKey)
	}

	custody := GetString(CustodyAddressKey)
	if !common.IsHexAddress(custody) {
		return fmt.Errorf("missing or invalid custody address")
	}

	if _, err := parseAddresses(GetString(AdminAddressesKey)); err != nil {
		return fmt.Errorf("%s: %s", AdminAddressesKey, err)
	}
	if _, err := parseAddresses(GetString(ManagerAddressesKey)); err != nil {
		return fmt.Errorf("%s: %s", ManagerAddressesKey, err)
	}

	if GetInt(BreakerMaxFailuresKey) < 0 {
		return fmt.Errorf("%s must not be negative", BreakerMaxFailuresKey)
	}
	if ratio := GetFloat(BreakerFailingRatioKey); ratio < 0 || ratio > 1 {
		return fmt.Errorf("%s must be in range [0, 1]", BreakerFailingRatioKey)
	}

	if path := GetString(RegistryFileKey); path != "" {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("registry file: %s", err)
		}
	}

	return nil
}

func initDatadir() error {
	if GetString(DBTypeKey) != application.DBBadger {
		return makeDirectoryIfNotExists(GetDatadir())
	}
	return makeDirectoryIfNotExists(GetDbDir())
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}

func parseAddresses(list string) ([]common.Address, error) {
	addresses := make([]common.Address, 0)
	for _, s := range strings.Split(list, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if !common.IsHexAddress(s) {
			return nil, fmt.Errorf("invalid address %s", s)
		}
		addresses = append(addresses, common.HexToAddress(s))
	}
	return addresses, nil
}
