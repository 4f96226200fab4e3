package messages

import (
	"fmt"

	"max.ks1230/gastos-bot/internal/entity/expense"
)

const (
	startCommand   = "start"
	expenseCommand = "gasto"
	cancelCommand  = "cancelar"
)

const (
	menuMessage            = "🛒 Por favor, selecciona una categoría:"
	startFirstMessage      = "Por favor, inicia con /gasto para seleccionar una categoría."
	formatErrorMessage     = "❌ Error de formato.\n\nUsa el formato: monto descripción\nEjemplo: 120 Pasajes de micro"
	saveFailedMessage      = "❌ Hubo un error al guardar el gasto. Intenta enviarlo de nuevo en unos minutos."
	unknownCategoryMessage = "❌ Esa categoría no existe. Usa /gasto para elegir otra."
	cancelledMessage       = "Registro cancelado. Usa /gasto cuando quieras empezar de nuevo."
	unknownCommandMessage  = "No conozco ese comando. Usa /gasto para registrar un gasto."
	internalErrorMessage   = "❌ Algo salió mal. Intenta de nuevo en unos minutos."

	defaultUserName = "allí"
)

func greetingMessage(name string) string {
	if name == "" {
		name = defaultUserName
	}
	return fmt.Sprintf("¡Hola, %s! 👋\n\n"+
		"Soy tu asistente de gastos personal.\n\n"+
		"Usa /gasto para registrar un nuevo gasto.", name)
}

func categoryPromptMessage(label string) string {
	return fmt.Sprintf("Categoría: %s\n\n"+
		"Ahora, envía el monto y la descripción.\n\n"+
		"👉 Formato: monto descripción\n"+
		"👉 Ejemplo: 35.50 Almuerzo con amigos", label)
}

func successMessage(rec expense.Record) string {
	return fmt.Sprintf("✅ ¡Gasto registrado con éxito!\n\n"+
		"Categoría: %s\n"+
		"Monto: %s\n"+
		"Descripción: %s", rec.Category, expense.FormatAmount(rec.Amount), rec.Description)
}
