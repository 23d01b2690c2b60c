package i18n

var catalogs = map[string]map[string]string{
	"es": {
		"required":         "Requerido",
		"must_be_positive": "Debe ser mayor a cero",
		"must_not_be_neg":  "No puede ser negativo",
		"currency":         "Bs",
		"nav.back":         "Volver",
		"app.subtitle":     "Sistema de Gestión de Proformas",
		"footer.version":   "Versión",
		"footer.for":       "Desarrollado para",
		"theme.toggle":     "Cambiar tema",
		"modal.ok":         "Aceptar",
		"error.prefix":     "Error:",

		"dashboard.create.title":  "Nueva Pro-Forma",
		"dashboard.create.desc":   "Crear una cotización, registrar clientes nuevos y generar PDF.",
		"dashboard.history.title": "Historial y Registros",
		"dashboard.history.desc":  "Ver proformas pasadas, buscar por cliente y revisar pagos.",
		"dashboard.reports.title": "Reportes",
		"dashboard.reports.desc":  "Ver ganancias totales y dinero pendiente.",

		"create.title":                   "Nueva Pro-Forma",
		"create.client":                  "Cliente",
		"create.client_placeholder":      "Buscar o Registrar Cliente...",
		"create.search":                  "Buscar",
		"create.existing_clients":        "Clientes existentes encontrados:",
		"create.new_client":              "¿Es un cliente nuevo?",
		"create.phone":                   "Cel:",
		"create.phone_placeholder":       "Teléfono del nuevo cliente...",
		"create.nit":                     "NIT:",
		"create.nit_placeholder":         "NIT/CI (opcional)",
		"create.register":                "Registrar nuevo",
		"create.no_extra":                "Sin datos extra",
		"create.vehicle":                 "Vehículo",
		"create.vehicle_placeholder":     "Ej: Camión Tracto 593-EXB",
		"create.driver":                  "Chofer",
		"create.driver_placeholder":      "Nombre del conductor (Opcional)",
		"create.qty":                     "Cant.",
		"create.description":             "Descripción",
		"create.description_placeholder": "Descripción...",
		"create.unit_price":              "Precio Unitario",
		"create.action":                  "Acción",
		"create.add_line":                "Agregar línea",
		"create.remove":                  "Quitar",
		"create.recalc":                  "Recalcular",
		"create.total":                   "Total",
		"create.save":                    "Guardar Pro-Forma",
		"create.client_required":         "Por favor selecciona un cliente.",
		"create.vehicle_required":        "Por favor ingresa la referencia del vehículo.",
		"create.client_error":            "Error al crear el cliente.",

		"created.title":  "¡Guardado Exitoso!",
		"created.prefix": "La proforma Nº",
		"created.suffix": "está lista.",
		"created.print":  "Imprimir PDF",
		"created.new":    "Crear Nueva Proforma",

		"proforma.title":    "Proforma",
		"proforma.date":     "Fecha",
		"proforma.subtotal": "Subtotal",
		"proforma.status":   "Estado",

		"history.title":              "Historial",
		"history.subtitle":           "Administra tus cobros y trabajos",
		"history.search_placeholder": "Buscar cliente...",
		"history.tab.pending":        "PENDIENTES",
		"history.tab.paid":           "PAGADAS",
		"history.col.number":         "Nº",
		"history.col.date":           "Fecha",
		"history.col.client":         "Cliente",
		"history.col.vehicle":        "Vehículo",
		"history.col.total":          "Total",
		"history.col.actions":        "Acciones",
		"history.collect":            "Cobrar",
		"history.collect_title":      "Marcar como Pagado",
		"history.confirm_collect":    "¿Confirmas que recibiste el pago de esta proforma?",
		"history.collected":          "¡Cobro registrado correctamente!",
		"history.collect_error":      "Error al cobrar:",
		"history.pdf":                "Ver Factura PDF",
		"history.empty":              "Sin proformas",

		"reports.title":           "Reporte General",
		"reports.total_generated": "Total Generado (Histórico)",
		"reports.pending":         "Pendiente por Cobrar",
		"reports.pending_hint":    "Dinero en la calle",
		"reports.collected":       "Cobrado",
		"reports.jobs":            "Trabajos Realizados",
		"reports.jobs_hint":       "Proformas emitidas",

		"status.pending":   "Pendiente",
		"status.paid":      "Pagada",
		"status.cancelled": "Anulada",
	},
	"en": {
		"required":         "Required",
		"must_be_positive": "Must be greater than zero",
		"must_not_be_neg":  "Cannot be negative",
		"nav.back":         "Back",
		"app.subtitle":     "Proforma Management System",
		"footer.version":   "Version",
		"footer.for":       "Built for",
		"theme.toggle":     "Toggle theme",
		"modal.ok":         "OK",

		"dashboard.create.title":  "New Proforma",
		"dashboard.create.desc":   "Create a quote, register new clients and print the PDF.",
		"dashboard.history.title": "History",
		"dashboard.history.desc":  "Browse past proformas, search by client and track payments.",
		"dashboard.reports.title": "Reports",
		"dashboard.reports.desc":  "See total revenue and outstanding money.",

		"create.title":                   "New Proforma",
		"create.client":                  "Client",
		"create.client_placeholder":      "Search or register a client...",
		"create.search":                  "Search",
		"create.existing_clients":        "Existing clients found:",
		"create.new_client":              "New client?",
		"create.phone":                   "Phone:",
		"create.phone_placeholder":       "New client's phone...",
		"create.nit":                     "Tax ID:",
		"create.nit_placeholder":         "Tax ID (optional)",
		"create.register":                "Register new",
		"create.no_extra":                "No extra data",
		"create.vehicle":                 "Vehicle",
		"create.vehicle_placeholder":     "e.g. Tractor truck 593-EXB",
		"create.driver":                  "Driver",
		"create.driver_placeholder":      "Driver name (optional)",
		"create.qty":                     "Qty",
		"create.description":             "Description",
		"create.description_placeholder": "Description...",
		"create.unit_price":              "Unit price",
		"create.action":                  "Action",
		"create.add_line":                "Add line",
		"create.remove":                  "Remove",
		"create.recalc":                  "Recalculate",
		"create.save":                    "Save proforma",
		"create.client_required":         "Please select a client.",
		"create.vehicle_required":        "Please enter the vehicle reference.",
		"create.client_error":            "Could not create the client.",

		"created.title":  "Saved!",
		"created.prefix": "Proforma No.",
		"created.suffix": "is ready.",
		"created.print":  "Print PDF",
		"created.new":    "Create another proforma",

		"proforma.title":    "Proforma",
		"proforma.date":     "Date",
		"proforma.subtotal": "Subtotal",
		"proforma.status":   "Status",

		"history.title":              "History",
		"history.subtitle":           "Manage payments and jobs",
		"history.search_placeholder": "Search client...",
		"history.tab.pending":        "PENDING",
		"history.tab.paid":           "PAID",
		"history.col.number":         "No.",
		"history.col.date":           "Date",
		"history.col.client":         "Client",
		"history.col.vehicle":        "Vehicle",
		"history.col.actions":        "Actions",
		"history.collect":            "Collect",
		"history.collect_title":      "Mark as paid",
		"history.confirm_collect":    "Confirm you received payment for this proforma?",
		"history.collected":          "Payment registered!",
		"history.collect_error":      "Could not register payment:",
		"history.pdf":                "View PDF",
		"history.empty":              "No proformas",

		"reports.title":           "General Report",
		"reports.total_generated": "Total generated (all time)",
		"reports.pending":         "Pending collection",
		"reports.pending_hint":    "Money still out",
		"reports.collected":       "Collected",
		"reports.jobs":            "Jobs done",
		"reports.jobs_hint":       "Proformas issued",

		"status.pending":   "Pending",
		"status.paid":      "Paid",
		"status.cancelled": "Cancelled",
	},
}
