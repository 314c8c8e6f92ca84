package netcode

// Rename gives the packet a new name and renames fields by their initial
// name, so renaming twice stays stable. Write steps and owned constructor
// references follow the fields. InitialName and every field's InitialName
// are left alone.
func (p *PacketSchema) Rename(name string, fields map[string]string) {
	if name != "" {
		p.Name = name
	}
	// write steps and field refs use current names
	current := make(map[string]string, len(fields))
	for initial, n := range fields {
		if f, ok := p.FieldByInitialName(initial); ok && n != "" {
			current[f.Name] = n
		}
	}
	if len(current) == 0 {
		return
	}
	rename := func(old string) string {
		if n, ok := current[old]; ok {
			return n
		}
		return old
	}

	for i := range p.Fields {
		p.Fields[i].Name = rename(p.Fields[i].Name)
	}
	for i, c := range p.ConstructorDefinition {
		if f, ok := c.FieldRef.Field(); ok {
			p.ConstructorDefinition[i].FieldRef = Owned(rename(f))
		}
	}
	for i, step := range p.WriteBody {
		switch s := step.(type) {
		case Scalar:
			s.Name = rename(s.Name)
			p.WriteBody[i] = s
		case ArrayOfPrimitives:
			s.Name = rename(s.Name)
			p.WriteBody[i] = s
		case ArrayOfModules:
			s.Name = rename(s.Name)
			p.WriteBody[i] = s
		case Conditional:
			s.FieldName = rename(s.FieldName)
			p.WriteBody[i] = s
		}
	}
}
