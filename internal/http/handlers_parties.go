package http

import "net/http"

func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := s.clients.List(r.Context(), searchTerm(r))
	if err != nil {
		writeError(w, r, "Error al obtener los clientes", err)
		return
	}
	writeData(w, clients)
}

func (s *Server) handleGetClient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, "ID de cliente no válido", err)
		return
	}
	client, err := s.clients.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, "Cliente no encontrado", err)
		return
	}
	writeData(w, client)
}

func (s *Server) handleGetAval(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, "ID de aval no válido", err)
		return
	}
	aval, err := s.avales.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, "Aval no encontrado", err)
		return
	}
	writeData(w, aval)
}
