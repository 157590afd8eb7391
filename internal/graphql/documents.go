package graphql

const assetFields = `
	id
	customerId
	customer { firstName lastName }
	group
	categoryName
	name
	valuation { amount currency }
	underManagement
	metadata
	createdAt
	owners {
		entity { id firstName lastName }
		ownership
		mode
	}
`

const investmentFields = `
	id
	name
	code
	category
	quantity
	unitPrice
	unitValue
	valuation
	sri
	lastValuationDate
`

const customerFields = `
	id
	companyId
	firstName
	lastName
	email
	portalAccess
`

const lcbFields = `
	answers { key value }
	updatedAt
`

const authenticatedQuery = `
query Authenticated {
	authenticated { id email disabledFeatures }
}`

const customerQuery = `
query Customer($companyId: ID!, $customerId: ID!) {
	customer(companyId: $companyId, id: $customerId) {` + customerFields + `}
}`

const updateCustomerMutation = `
mutation UpdateCustomer($companyId: ID!, $customerId: ID!, $input: CustomerInput!) {
	updateCustomer(companyId: $companyId, id: $customerId, input: $input) {` + customerFields + `}
}`

const customerWealthQuery = `
query CustomerWealth($companyId: ID!, $customerId: ID!) {
	customer(companyId: $companyId, id: $customerId) {
		id
		assets {` + assetFields + `}
	}
}`

const assetDetailQuery = `
query AssetDetail($assetId: ID!) {
	asset(id: $assetId) {` + assetFields + `}
}`

const assetInvestmentsQuery = `
query AssetInvestments($assetId: ID!) {
	asset(id: $assetId) {
		id
		investments {` + investmentFields + `}
	}
}`

const assetPerformanceQuery = `
query AssetPerformance($assetId: ID!) {
	asset(id: $assetId) {
		id
		performance { gain evolutionPercent }
	}
}`

const assetDeletionMutation = `
mutation AssetDeletion($assetId: ID!) {
	deleteAsset(id: $assetId)
}`

const assetOwnershipQuery = `
query AssetOwnership($assetId: ID!) {
	asset(id: $assetId) {
		id
		owners {
			entity { id firstName lastName }
			ownership
			mode
		}
		customer {
			id
			firstName
			lastName
			relatedEntities { id firstName lastName relation }
		}
	}
}`

const updateAssetOwnershipMutation = `
mutation updateAssetOwnership($assetId: ID!, $owners: [AssetOwnerInput!]!) {
	updateAssetOwnership(assetId: $assetId, owners: $owners) { id }
}`

const searchAssetsQuery = `
query SearchAssets($filter: AssetSearchInput!) {
	searchAssets(filter: $filter) {` + assetFields + `
		investments {` + investmentFields + `}
	}
}`

const lcbQuery = `
query LCB($customerId: ID!) {
	lcbForm(customerId: $customerId) {` + lcbFields + `}
}`

const updateLCBMutation = `
mutation UpdateLCB($customerId: ID!, $answers: [LCBAnswerInput!]!) {
	updateLCB(customerId: $customerId, answers: $answers) {` + lcbFields + `}
}`

const pingQuery = `
query Ping {
	__typename
}`
