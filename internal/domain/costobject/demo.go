package costobject

// DemoObjects returns the sites the demo store starts with.
func DemoObjects() []*CostObject {
	completed := New("Обект Център", "ул. Граф Игнатиев 45")
	completed.Status = StatusCompleted

	return []*CostObject{
		New("Обект Витоша", "бул. Витошка 100"),
		New("Обект Люлин", "ж.к. Люлин бл. 205"),
		New("Обект Младост", "ж.к. Младост 4"),
		completed,
	}
}
