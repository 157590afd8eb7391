package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrAssetNotFound indicates that an asset with the given ID does not exist.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrCustomerNotFound indicates that a customer with the given ID does not exist
	// or does not belong to the given company.
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrOwnerNotFound indicates that an ownership row refers to an entity that is
	// neither a current owner nor an eligible related entity.
	ErrOwnerNotFound = errors.New("owner not found")

	ErrLCBNotFound = errors.New("lcb questionnaire not found")
)

// Access errors are returned by the session layer.
var (
	// ErrUnauthenticated indicates a missing or unknown bearer token.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrFeatureDisabled indicates that the feature is in the manager's disabledFeatures.
	ErrFeatureDisabled = errors.New("feature disabled")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrOwnershipInconsistent indicates that ownership fractions do not allocate
	// both bare ownership and usufruct fully.
	ErrOwnershipInconsistent = errors.New("ownership shares are inconsistent")

	// ErrInvalidFraction indicates an ownership fraction outside [0,1].
	ErrInvalidFraction = errors.New("ownership fraction must be between 0 and 1")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
// These errors indicate that an operation failed, but not due to missing entities or validation issues.
var (
	ErrFailedToRetrieveWealth    = errors.New("failed to retrieve customer wealth")
	ErrFailedToRetrieveAsset     = errors.New("failed to retrieve asset")
	ErrFailedToRetrieveOwnership = errors.New("failed to retrieve asset ownership")
	ErrFailedToSaveOwnership     = errors.New("failed to save asset ownership")
	ErrFailedToDeleteAsset       = errors.New("failed to delete asset")
	ErrFailedToSearchAssets      = errors.New("failed to search assets")
	ErrFailedToUpdateCustomer    = errors.New("failed to update customer")
	ErrFailedToRetrieveLCB       = errors.New("failed to retrieve lcb questionnaire")
	ErrFailedToUpdateLCB         = errors.New("failed to update lcb questionnaire")

	// System operation errors
	ErrFailedToGetVersionInfo = errors.New("failed to get version information")
)

// Data integrity errors represent inconsistencies or corruption in the data.
var (
	// ErrDataInconsistency indicates that the data is in an inconsistent state
	// (e.g., an owner row references a customer that no longer exists).
	ErrDataInconsistency = errors.New("data inconsistency detected")

	// ErrMissingRequiredField indicates that a required field is missing or empty.
	ErrMissingRequiredField = errors.New("missing required field")
)
