package hostfxr

import "fmt"

// StatusCode is a status returned by hostfxr or a hosting delegate.
// Values with the high bit set are failures.
type StatusCode uint32

const (
	StatusSuccess                       StatusCode = 0
	StatusSuccessHostAlreadyInitialized StatusCode = 0x00000001
	StatusSuccessDifferentRuntimeProps  StatusCode = 0x00000002
	StatusInvalidArgFailure             StatusCode = 0x80008081
	StatusCoreHostLibLoadFailure        StatusCode = 0x80008082
	StatusCoreHostLibMissingFailure     StatusCode = 0x80008083
	StatusCoreHostEntryPointFailure     StatusCode = 0x80008084
	StatusCoreHostCurHostFindFailure    StatusCode = 0x80008085
	StatusCoreClrResolveFailure         StatusCode = 0x80008087
	StatusCoreClrBindFailure            StatusCode = 0x80008088
	StatusCoreClrInitFailure            StatusCode = 0x80008089
	StatusCoreClrExeFailure             StatusCode = 0x8000808a
	StatusResolverInitFailure           StatusCode = 0x8000808b
	StatusResolverResolveFailure        StatusCode = 0x8000808c
	StatusLibHostInitFailure            StatusCode = 0x8000808e
	StatusLibHostInvalidArgs            StatusCode = 0x80008092
	StatusInvalidConfigFile             StatusCode = 0x80008093
	StatusFrameworkMissingFailure       StatusCode = 0x80008096
	StatusHostAPIFailed                 StatusCode = 0x80008097
	StatusHostAPIBufferTooSmall         StatusCode = 0x80008098
	StatusFrameworkCompatFailure        StatusCode = 0x8000809c
	StatusHostAPIUnsupportedVersion     StatusCode = 0x800080a2
	StatusHostInvalidState              StatusCode = 0x800080a3
	StatusHostPropertyNotFound          StatusCode = 0x800080a4
	StatusCoreHostIncompatibleConfig    StatusCode = 0x800080a5
	StatusHostAPIUnsupportedScenario    StatusCode = 0x800080a6
	StatusHostFeatureDisabled           StatusCode = 0x800080a7
	StatusFileNotFound                  StatusCode = 0x80070002 // COR_E_FILENOTFOUND
	StatusMissingMethod                 StatusCode = 0x80131513 // COR_E_MISSINGMETHOD
	StatusTypeLoad                      StatusCode = 0x80131522 // COR_E_TYPELOAD
	StatusArgument                      StatusCode = 0x80070057 // E_INVALIDARG
)

var statusNames = map[StatusCode]string{
	StatusSuccess:                       "Success",
	StatusSuccessHostAlreadyInitialized: "Success_HostAlreadyInitialized",
	StatusSuccessDifferentRuntimeProps:  "Success_DifferentRuntimeProperties",
	StatusInvalidArgFailure:             "InvalidArgFailure",
	StatusCoreHostLibLoadFailure:        "CoreHostLibLoadFailure",
	StatusCoreHostLibMissingFailure:     "CoreHostLibMissingFailure",
	StatusCoreHostEntryPointFailure:     "CoreHostEntryPointFailure",
	StatusCoreHostCurHostFindFailure:    "CoreHostCurHostFindFailure",
	StatusCoreClrResolveFailure:         "CoreClrResolveFailure",
	StatusCoreClrBindFailure:            "CoreClrBindFailure",
	StatusCoreClrInitFailure:            "CoreClrInitFailure",
	StatusCoreClrExeFailure:             "CoreClrExeFailure",
	StatusResolverInitFailure:           "ResolverInitFailure",
	StatusResolverResolveFailure:        "ResolverResolveFailure",
	StatusLibHostInitFailure:            "LibHostInitFailure",
	StatusLibHostInvalidArgs:            "LibHostInvalidArgs",
	StatusInvalidConfigFile:             "InvalidConfigFile",
	StatusFrameworkMissingFailure:       "FrameworkMissingFailure",
	StatusHostAPIFailed:                 "HostApiFailed",
	StatusHostAPIBufferTooSmall:         "HostApiBufferTooSmall",
	StatusFrameworkCompatFailure:        "FrameworkCompatFailure",
	StatusHostAPIUnsupportedVersion:     "HostApiUnsupportedVersion",
	StatusHostInvalidState:              "HostInvalidState",
	StatusHostPropertyNotFound:          "HostPropertyNotFound",
	StatusCoreHostIncompatibleConfig:    "CoreHostIncompatibleConfig",
	StatusHostAPIUnsupportedScenario:    "HostApiUnsupportedScenario",
	StatusHostFeatureDisabled:           "HostFeatureDisabled",
	StatusFileNotFound:                  "COR_E_FILENOTFOUND",
	StatusMissingMethod:                 "COR_E_MISSINGMETHOD",
	StatusTypeLoad:                      "COR_E_TYPELOAD",
	StatusArgument:                      "E_INVALIDARG",
}

// Failed reports whether s is a failure status.
func (s StatusCode) Failed() bool {
	return s&0x80000000 != 0
}

func (s StatusCode) String() string {
	if name, ok := statusNames[s]; ok {
		return fmt.Sprintf("%s (%#08x)", name, uint32(s))
	}
	return fmt.Sprintf("%#08x", uint32(s))
}

// statusOf converts a raw int32 return value into a StatusCode.
func statusOf(rc int32) StatusCode {
	return StatusCode(uint32(rc))
}
