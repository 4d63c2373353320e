package xlog

const (
	emptyString    = ""
	notInitialized = "<Not initialized>"

	// identitySeparator joins the type tag, owner and context of an identity.
	identitySeparator = "::"

	displayTypeTag = "DisplayLogger"
	fileTypeTag    = "FileLogger"

	// Property names attached to every entry of a bound logger.
	PropertyOwner   = "WbName"
	PropertyContext = "Context"
)

const (
	errMsgNilConfig       = "Logging config is nil."
	errMsgConfigInvalid   = "Logging configuration is invalid."
	errMsgNilDefaults     = "Defaults are nil."
	errMsgDefaultsInvalid = "Defaults are invalid."
	errMsgInvalidOwner    = "Invalid owner name."
	errMsgNotInitialized  = "Not initialized."
	errMsgAlreadyInit     = "Already initialized."
	errMsgArchivalSet     = "Archival options already set."
	errMsgInvalidFormat   = "Invalid DateFormat."
	errMsgDuplicateRule   = "Rule already registered."
	errMsgInternal        = "Internal error"
)
