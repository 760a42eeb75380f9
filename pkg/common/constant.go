package common

const (
	EnvKeyGoEnv string = "GO_ENV"

	EnvKeyRunIntegrationTests string = "RUN_INTEGRATION_TESTS"

	EnvKeyTHPDBType string = "THP_DB_TYPE"
	EnvKeyTHPDbPath string = "THP_DB_PATH"
	EnvKeyTHPDbDSN  string = "THP_DB_DSN"

	EnvKeyTHPHttpHostPort string = "THP_HTTP_HOST_PORT"
	EnvKeyTHPGrpcHostPort string = "THP_GRPC_HOST_PORT"

	EnvKeyTHPDefaultRate  string = "THP_DEFAULT_RATE"
	EnvKeyTHPDefaultBurst string = "THP_DEFAULT_BURST"

	EnvKeyTHPSimulatorSchedule string = "THP_SIMULATOR_SCHEDULE"

	EnvKeyTempThreshold     string = "TEMP_THRESHOLD"
	EnvKeyHumidityThreshold string = "HUMIDITY_THRESHOLD"
	EnvKeyPressureThreshold string = "PRESSURE_THRESHOLD"

	EnvKeyNotifyChannel  string = "NOTIFY_CHANNEL"
	EnvKeyNotifyTimezone string = "NOTIFY_TIMEZONE"

	EnvKeyTwilioAccountSID  string = "TWILIO_ACCOUNT_SID"
	EnvKeyTwilioAuthToken   string = "TWILIO_AUTH_TOKEN"
	EnvKeyTwilioPhoneNumber string = "TWILIO_PHONE_NUMBER"
	EnvKeyRecipientNumber   string = "SAMPLE_RECIPIENT_MOBILE_NUMBER"

	LoggerNameReadingCore   string = "reading_core"
	LoggerNameNotify        string = "notify"
	LoggerNameRestfulServer string = "restful_server"
	LoggerNameGrpcServer    string = "grpc_server"
	LoggerNameSimulator     string = "simulator"

	LoggerFieldCategory        string = "category"
	LoggerCategoryReading      string = "reading"
	LoggerCategoryThreshold    string = "threshold"
	LoggerCategoryDispatch     string = "dispatch"
	LoggerCategoryChannel      string = "channel"
	LoggerCategorySimulatorRun string = "tick"
)
