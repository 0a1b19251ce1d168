package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github/chapool/go-dapp/internal/util"
)

type EchoServer struct {
	Debug                         bool
	ListenAddress                 string
	EnableCORSMiddleware          bool
	EnableRecoverMiddleware       bool
	EnableRequestIDMiddleware     bool
	EnableTrailingSlashMiddleware bool
}

type LoggerServer struct {
	Level              zerolog.Level
	RequestLevel       zerolog.Level
	LogRequestBody     bool
	LogRequestHeader   bool
	LogResponseBody    bool
	LogResponseHeader  bool
	PrettyPrintConsole bool
}

type ManagementServer struct {
	ReadinessTimeout time.Duration
	LivenessTimeout  time.Duration
	ProbeBaseURL     string
}

// Ledger configures the single RPC endpoint the ledger client is bound to.
type Ledger struct {
	// Cluster is the network name presented to the signer and used for explorer links
	// ("testnet", "devnet", "mainnet-beta", "localnet").
	Cluster string
	// RPCURL overrides the cluster's default endpoint. Empty means the cluster default.
	RPCURL         string
	ConfirmTimeout time.Duration
	PollInterval   time.Duration
}

// AppIdentity is presented verbatim to the signer on every authorize/reauthorize.
type AppIdentity struct {
	Name string
	URI  string
	Icon string
}

type Wallet struct {
	// Endpoint is the base URL of the external signer's wire endpoint.
	Endpoint       string
	RequestTimeout time.Duration
	Identity       AppIdentity
}

type Pipeline struct {
	AirdropLamports uint64
	DefaultMemo     string
	ExplorerBaseURL string
}

type DevSigner struct {
	ListenAddress    string
	KeystorePath     string
	Password         string `json:"-"`
	RotateAuthTokens bool
	// SessionIdleTimeout frees an open signer session nobody has used for this long.
	SessionIdleTimeout time.Duration
}

type Server struct {
	Echo       EchoServer
	Logger     LoggerServer
	Management ManagementServer
	Ledger     Ledger
	Wallet     Wallet
	Pipeline   Pipeline
	DevSigner  DevSigner
}

const (
	// LamportsPerSOL is the number of lamports in one SOL.
	LamportsPerSOL uint64 = 1_000_000_000

	ClusterTestnet     = "testnet"
	ClusterDevnet      = "devnet"
	ClusterMainnetBeta = "mainnet-beta"
	ClusterLocalnet    = "localnet"
)

// DefaultServiceConfigFromEnv returns the server config as parsed from environment variables
// and their respective defaults defined below.
// We don't expect that ENV_VARs change while we are running our application or our tests
// (and it would be a bad thing to do anyways with parallel testing).
// Do NOT use os.Setenv / os.Unsetenv in tests utilizing DefaultServiceConfigFromEnv()!
func DefaultServiceConfigFromEnv() Server {
	// An `.env.local` file in your project root can override the currently set ENV variables.
	//
	// We never automatically apply `.env.local` when running "go test" as these ENV variables
	// may be sensitive (e.g. secrets to external APIs) and applying them modifies the process
	// global "os.Env" state (it should be applied via t.Setenv instead).
	if !runningInTest() {
		util.DotEnvTryLoad(filepath.Join(projectRoot(), ".env.local"), os.Setenv)
	}

	return Server{
		Echo: EchoServer{
			Debug:                         util.GetEnvAsBool("SERVER_ECHO_DEBUG", false),
			ListenAddress:                 util.GetEnv("SERVER_ECHO_LISTEN_ADDRESS", ":8080"),
			EnableCORSMiddleware:          util.GetEnvAsBool("SERVER_ECHO_ENABLE_CORS_MIDDLEWARE", true),
			EnableRecoverMiddleware:       util.GetEnvAsBool("SERVER_ECHO_ENABLE_RECOVER_MIDDLEWARE", true),
			EnableRequestIDMiddleware:     util.GetEnvAsBool("SERVER_ECHO_ENABLE_REQUEST_ID_MIDDLEWARE", true),
			EnableTrailingSlashMiddleware: util.GetEnvAsBool("SERVER_ECHO_ENABLE_TRAILING_SLASH_MIDDLEWARE", true),
		},
		Logger: LoggerServer{
			Level:              util.LogLevelFromString(util.GetEnv("SERVER_LOGGER_LEVEL", zerolog.DebugLevel.String())),
			RequestLevel:       util.LogLevelFromString(util.GetEnv("SERVER_LOGGER_REQUEST_LEVEL", zerolog.DebugLevel.String())),
			LogRequestBody:     util.GetEnvAsBool("SERVER_LOGGER_LOG_REQUEST_BODY", false),
			LogRequestHeader:   util.GetEnvAsBool("SERVER_LOGGER_LOG_REQUEST_HEADER", false),
			LogResponseBody:    util.GetEnvAsBool("SERVER_LOGGER_LOG_RESPONSE_BODY", false),
			LogResponseHeader:  util.GetEnvAsBool("SERVER_LOGGER_LOG_RESPONSE_HEADER", false),
			PrettyPrintConsole: util.GetEnvAsBool("SERVER_LOGGER_PRETTY_PRINT_CONSOLE", false),
		},
		Management: ManagementServer{
			ReadinessTimeout: util.GetEnvAsDuration("SERVER_MANAGEMENT_READINESS_TIMEOUT", 4*time.Second),
			LivenessTimeout:  util.GetEnvAsDuration("SERVER_MANAGEMENT_LIVENESS_TIMEOUT", 9*time.Second),
			ProbeBaseURL:     util.GetEnv("SERVER_MANAGEMENT_PROBE_BASE_URL", "http://127.0.0.1:8080"),
		},
		Ledger: Ledger{
			Cluster: util.GetEnvEnum("LEDGER_CLUSTER", ClusterTestnet,
				[]string{ClusterTestnet, ClusterDevnet, ClusterMainnetBeta, ClusterLocalnet}),
			RPCURL:         util.GetEnv("LEDGER_RPC_URL", ""),
			ConfirmTimeout: util.GetEnvAsDuration("LEDGER_CONFIRM_TIMEOUT", 90*time.Second),
			PollInterval:   util.GetEnvAsDuration("LEDGER_POLL_INTERVAL", 500*time.Millisecond),
		},
		Wallet: Wallet{
			Endpoint:       util.GetEnv("WALLET_ENDPOINT", "http://127.0.0.1:8090"),
			RequestTimeout: util.GetEnvAsDuration("WALLET_REQUEST_TIMEOUT", 2*time.Minute),
			Identity: AppIdentity{
				Name: util.GetEnv("APP_IDENTITY_NAME", "Hyperdrive Workshop App"),
				URI:  util.GetEnv("APP_IDENTITY_URI", "https://yourdapp.com"),
				Icon: util.GetEnv("APP_IDENTITY_ICON", "favicon.ico"),
			},
		},
		Pipeline: Pipeline{
			AirdropLamports: util.GetEnvAsUint64("PIPELINE_AIRDROP_LAMPORTS", LamportsPerSOL),
			DefaultMemo:     util.GetEnv("PIPELINE_DEFAULT_MEMO", "Hello Solana"),
			ExplorerBaseURL: util.GetEnv("PIPELINE_EXPLORER_BASE_URL", "https://explorer.solana.com"),
		},
		DevSigner: DevSigner{
			ListenAddress:      util.GetEnv("DEV_SIGNER_LISTEN_ADDRESS", ":8090"),
			KeystorePath:       util.GetEnv("DEV_SIGNER_KEYSTORE_PATH", filepath.Join(projectRoot(), ".dev-signer", "keystore.json")),
			Password:           util.GetEnv("DEV_SIGNER_PASSWORD", ""),
			RotateAuthTokens:   util.GetEnvAsBool("DEV_SIGNER_ROTATE_AUTH_TOKENS", false),
			SessionIdleTimeout: util.GetEnvAsDuration("DEV_SIGNER_SESSION_IDLE_TIMEOUT", time.Minute),
		},
	}
}

func projectRoot() string {
	if root, ok := os.LookupEnv("PROJECT_ROOT_DIR"); ok {
		return root
	}

	wd, err := os.Getwd()
	if err != nil {
		return "."
	}

	return wd
}

func runningInTest() bool {
	return len(os.Args) > 0 && filepath.Ext(os.Args[0]) == ".test"
}
