package create_reservation

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_reservation: invalid input data")

	// ErrUnknownPackage возвращается, когда пакет отсутствует в каталоге
	ErrUnknownPackage = errors.New("create_reservation: unknown package")

	// ErrPackageUnavailable возвращается, когда для пакета не настроена цена
	ErrPackageUnavailable = errors.New("create_reservation: package is not available for purchase")

	// ErrInvalidTimeSlot возвращается, когда время не совпадает ни с одним слотом сетки
	ErrInvalidTimeSlot = errors.New("create_reservation: time is not a bookable slot")

	// ErrDateInPast возвращается, когда слот уже начался
	ErrDateInPast = errors.New("create_reservation: slot is in the past")

	// ErrCheckoutNotConfigured возвращается, когда оплата не настроена
	ErrCheckoutNotConfigured = errors.New("create_reservation: checkout is not configured")

	// ErrSlotConflict возвращается, когда слот занят по календарю или внутреннему хранилищу
	ErrSlotConflict = errors.New("create_reservation: slot is no longer available")

	// ErrDuplicateRequest возвращается, когда попытка с тем же ключом еще не завершена
	ErrDuplicateRequest = errors.New("create_reservation: reservation with this key is already in progress")

	// ErrReservationFailed возвращается, когда резервирование откатано после частичного выполнения
	ErrReservationFailed = errors.New("create_reservation: reservation failed")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)
