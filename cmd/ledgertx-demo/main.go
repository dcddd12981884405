// Command ledgertx-demo builds one sample transaction against fixture
// inputs and logs a summary of it: input and output counts, network id,
// essence size, and each output's type and amount. It exists to exercise the builder
// package end to end, not as a wallet or node.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ledgertx/sdk"
	"github.com/ledgertx/sdk/builder"
)

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg.Encoding = "console"
	cfg.EncoderConfig.TimeKey = ""

	return cfg.Build()
}

func demoProtocolParameters(networkName string) *ledger.ProtocolParameters {
	return &ledger.ProtocolParameters{
		Version:     1,
		NetworkName: networkName,
		Bech32HRP:   "tgl",
		TokenSupply: 1_000_000_000,
		StorageScoreStructure: ledger.StorageScoreStructure{
			StorageCost:                 500,
			FactorData:                  1,
			OffsetOutputOverhead:        10,
			OffsetEd25519BlockIssuerKey: 100,
			OffsetStakingFeature:        100,
			OffsetDelegation:            100,
		},
		WorkScoreParameters: ledger.WorkScoreParameters{
			DataByte:         1,
			Block:            100,
			Input:            10,
			ContextInput:     20,
			Output:           20,
			NativeToken:      20,
			Staking:          5000,
			BlockIssuer:      100,
			Allotment:        100,
			SignatureEd25519: 200,
		},
		GenesisUnixTimestamp:       1700000000,
		SlotDurationInSeconds:      10,
		SlotsPerEpochExponent:      13,
		ManaGenerationRate:         1,
		ManaGenerationRateExponent: 27,
		ManaDecayFactors:           []uint32{},
		ManaDecayFactorsExponent:   32,
		MinInputCount:              1,
		MaxInputCount:              128,
		MinOutputCount:             1,
		MaxOutputCount:             128,
		MaxNativeTokensPerOutput:   64,
		MaxStateMetadataLength:     8192,
	}
}

func runDemo(logger *zap.Logger, networkName string, amount uint64) error {
	params := demoProtocolParameters(networkName)
	api := ledger.V3API(params)

	sender := &ledger.Ed25519Address{0x01}
	recipient := &ledger.Ed25519Address{0x02}

	var srcTxID ledger.TransactionID
	srcTxID[0] = 0xAA
	input := &ledger.InputSigningData{
		OutputID: ledger.NewOutputID(srcTxID, 0),
		Output: &ledger.BasicOutput{
			Amount: ledger.BaseToken(amount),
			Conditions: ledger.BasicOutputUnlockConditions{
				&ledger.AddressUnlockCondition{Address: sender},
			},
		},
		CreationSlot: 0,
	}

	want := &ledger.BasicOutput{
		Amount: ledger.BaseToken(amount / 2),
		Conditions: ledger.BasicOutputUnlockConditions{
			&ledger.AddressUnlockCondition{Address: recipient},
		},
	}

	b := builder.New(
		api,
		ledger.InputSigningDataSlice{input},
		[]ledger.Output{want},
		[]ledger.Address{sender},
		10,
		ledger.SlotCommitmentID{},
	)
	b.WithRemainderAddress(sender)

	tx, err := b.Finish()
	if err != nil {
		return fmt.Errorf("building transaction: %w", err)
	}

	logger.Info("built transaction",
		zap.Int("inputs", len(tx.Essence.Inputs)),
		zap.Int("outputs", len(tx.Essence.Outputs)),
		zap.Uint64("network_id", tx.Essence.NetworkID),
		zap.Int("essence_size_bytes", tx.Essence.Size()),
	)
	for i, out := range tx.Essence.Outputs {
		logger.Info("output",
			zap.Int("index", i),
			zap.String("type", out.Type().String()),
			zap.Uint64("amount", uint64(out.Deposit())),
		)
	}

	return nil
}

func rootCommand() *cobra.Command {
	var networkName string
	var amount uint64
	var logLevel string

	cmd := &cobra.Command{
		Use:   "ledgertx-demo",
		Short: "Build one sample transaction and print its plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(viper.GetString("log-level"))
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			return runDemo(logger, viper.GetString("network-name"), viper.GetUint64("amount"))
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&networkName, "network-name", "ledgertx-demo", "protocol network name")
	flags.Uint64Var(&amount, "amount", 2_000_000, "base token amount of the fixture input")
	flags.StringVar(&logLevel, "log-level", "info", "zap log level")

	if err := viper.BindPFlags(flags); err != nil {
		panic(err)
	}
	viper.SetEnvPrefix("LEDGERTX")
	viper.AutomaticEnv()

	return cmd
}

func main() {
	if err := rootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
