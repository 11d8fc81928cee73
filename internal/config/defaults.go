package config

const (
	// DefaultVersion is the LDP test suite release that gets installed
	DefaultVersion = "0.1.1"
	// DefaultBaseURL is where versioned suite archives are downloaded from
	DefaultBaseURL = "https://github.com/w3c/ldp-testsuite/archive"
	// DefaultJavaBinary launches the built suite jar
	DefaultJavaBinary = "java"
	// DefaultBuildCommand builds the suite inside the install directory
	DefaultBuildCommand = "mvn package"
	// DefaultReportPath is where the suite writes its TestNG report, relative to the working directory
	DefaultReportPath = "test-output/testng-results.xml"
	// DefaultConfigFile is read when present and no --config flag is given
	DefaultConfigFile = ".ldptw.yaml"
	// DefaultEnvFile is read when present and no --env-file flag is given
	DefaultEnvFile = ".env"
	// DefaultOutputJSONFile is the default last-run file name
	DefaultOutputJSONFile = "ldp-results.json"
	// DefaultOutputJSONDir is the default last-run directory
	DefaultOutputJSONDir = "storage"
	// EnvPrefix prefixes environment variables that override configuration
	EnvPrefix = "LDPTW_"
)
