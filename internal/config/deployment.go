package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Deployment identifies one on-chain deployment of the protocol (for example
// "primary" or "beta"). It is selected once per command and passed explicitly
// to the components that need it.
type Deployment struct {
	Name                  string   `mapstructure:"-"`
	PoolType              string   `mapstructure:"pool-type"`
	BankType              string   `mapstructure:"bank-type"`
	OracleType            string   `mapstructure:"oracle-type"`
	ConstantProductQuoter string   `mapstructure:"cp-quoter"`
	OracleQuoter          string   `mapstructure:"oracle-quoter"`
	OracleQuoterV2        string   `mapstructure:"oracle-quoter-v2"`
	PlaceholderPrice      string   `mapstructure:"placeholder-price"`
	Objects               []string `mapstructure:"objects"`
}

func loadDeployment(v *viper.Viper, name string) (Deployment, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Deployment{}, fmt.Errorf("deployment name is required")
	}

	key := "deployments." + name
	if !v.IsSet(key) {
		return Deployment{}, fmt.Errorf("deployment %q is not configured", name)
	}

	var dep Deployment
	if err := v.UnmarshalKey(key, &dep); err != nil {
		return Deployment{}, fmt.Errorf("decode deployment %q: %w", name, err)
	}
	dep.Name = name
	dep.Objects = cleanStrings(dep.Objects)

	if err := dep.Validate(); err != nil {
		return Deployment{}, err
	}
	return dep, nil
}

// Validate checks that every quoter type is configured.
func (d Deployment) Validate() error {
	missing := make([]string, 0, 3)
	if d.ConstantProductQuoter == "" {
		missing = append(missing, "cp-quoter")
	}
	if d.OracleQuoter == "" {
		missing = append(missing, "oracle-quoter")
	}
	if d.OracleQuoterV2 == "" {
		missing = append(missing, "oracle-quoter-v2")
	}
	if len(missing) > 0 {
		return fmt.Errorf("deployment %q: missing %s", d.Name, strings.Join(missing, ", "))
	}
	return nil
}
