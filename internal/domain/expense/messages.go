package expense

// User-facing messages shown through the Notifier.
const (
	MsgLastPosition      = "Трябва да има поне една позиция"
	MsgEmptyPositions    = "Добавете поне една позиция с описание и цена"
	MsgSelectObject      = "Изберете обект"
	MsgAllocateAll       = "Разпределете всички позиции към обекти"
	MsgDateRequired      = "Въведете дата"
	MsgVendorRequired    = "Въведете доставчик"
	MsgPaymentRequired   = "Изберете начин на плащане"
	MsgUnknownObject     = "Обектът не е активен"
	MsgSaved             = "Разходът е записан успешно!"
	MsgSaveFailed        = "Грешка при запис"
	MsgSaveInProgress    = "Записът вече е в процес"
	MsgObjectsLoadFailed = "Грешка при зареждане на обектите"

	// PositionPlaceholder labels a position without a description.
	PositionPlaceholder = "Позиция"
)
