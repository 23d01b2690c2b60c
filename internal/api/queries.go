package api

// GraphQL documents sent to the backend. Field names follow the backend's
// camelCase schema; unit prices and totals travel as strings.
const (
	searchClientsQuery = `
query SearchClients($name: String) {
  allClients(name: $name) {
    id
    name
    nit
    phone
  }
}`

	createClientMutation = `
mutation CreateClient($name: String!, $phone: String, $nit: String) {
  createClient(name: $name, phone: $phone, nit: $nit) {
    client {
      id
      name
      nit
      phone
    }
  }
}`

	createProformaMutation = `
mutation CreateProforma($clientId: ID!, $vehicleRef: String!, $driver: String, $items: [ProformaItemInput]!) {
  createProforma(clientId: $clientId, vehicleRef: $vehicleRef, driver: $driver, items: $items) {
    proforma {
      id
      total
    }
  }
}`

	listProformasQuery = `
query ListProformas($search: String) {
  allProformas(search: $search) {
    id
    createdAt
    vehicleRef
    total
    status
    client {
      name
      phone
    }
  }
}`

	updateProformaStatusMutation = `
mutation UpdateProformaStatus($id: ID!, $status: String!) {
  updateProformaStatus(id: $id, status: $status) {
    proforma {
      id
      status
    }
  }
}`

	getProformaQuery = `
query GetProforma($id: ID!) {
  proforma(id: $id) {
    id
    createdAt
    vehicleRef
    driver
    total
    status
    client {
      id
      name
      nit
      phone
    }
    items {
      description
      quantity
      unitPrice
    }
  }
}`
)
