package shopapi

const resultFields = `
	__typename
	... on Order {
		code
		state
		payments { id method state metadata }
	}
	... on IneligiblePaymentMethodError { errorCode message eligibilityCheckerMessage }
	... on NoActiveOrderError { errorCode message }
	... on OrderPaymentStateError { errorCode message }
	... on OrderStateTransitionError { errorCode message fromState toState transitionError }
	... on PaymentDeclinedError { errorCode message paymentErrorMessage }
	... on PaymentFailedError { errorCode message paymentErrorMessage }
`

const addPaymentToOrderMutation = `mutation AddPaymentToOrder($input: PaymentInput!) {
	addPaymentToOrder(input: $input) {` + resultFields + `}
}`

const eligiblePaymentMethodsQuery = `query EligiblePaymentMethods {
	eligiblePaymentMethods { id code name description isEligible eligibilityMessage }
}`

const activeOrderFields = `
		id
		code
		state
		currencyCode
		totalWithTax
		lines {
			id
			quantity
			linePriceWithTax
			productVariant { name product { name } }
		}
`

const activeOrderQuery = `query ActiveOrder {
	activeOrder {` + activeOrderFields + `}
}`

const addItemToOrderMutation = `mutation AddItemToOrder($variantId: ID!, $quantity: Int!) {
	addItemToOrder(productVariantId: $variantId, quantity: $quantity) {
		__typename
		... on Order {` + activeOrderFields + `}
		... on ErrorResult { errorCode message }
	}
}`

const createStripePaymentIntentMutation = `mutation CreateStripePaymentIntent {
	createStripePaymentIntent
}`

const assetFields = `id preview source`

const productsQuery = `query Products($take: Int!) {
	products(options: { take: $take }) {
		items {
			id
			slug
			name
			featuredAsset { ` + assetFields + ` }
			variants { priceWithTax currencyCode }
		}
	}
}`

const productQuery = `query Product($slug: String!) {
	product(slug: $slug) {
		id
		slug
		name
		description
		featuredAsset { ` + assetFields + ` }
		assets { ` + assetFields + ` }
		variants { id name sku priceWithTax currencyCode }
	}
}`

const collectionsQuery = `query Collections {
	collections { items { id name slug parent { id } } }
}`
